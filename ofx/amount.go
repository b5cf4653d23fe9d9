package ofx

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary amount that is written back with the scale and decimal
// separator it was read with.
type Amount struct {
	Value  decimal.Decimal
	places int32
	comma  bool
}

// NewAmount returns an Amount for the given value, formatted with the given number of places.
func NewAmount(value decimal.Decimal, places int32) Amount {
	return Amount{Value: value, places: places}
}

// ParseAmount parses an OFX amount. Both '.' and ',' are accepted as decimal separator.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	comma := strings.Contains(s, ",")
	if comma {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	var places int32
	if exp := d.Exponent(); exp < 0 {
		places = -exp
	}
	return Amount{Value: d, places: places, comma: comma}, nil
}

// String returns the amount as it appears in an OFX file.
func (a Amount) String() string {
	s := a.Value.StringFixed(a.places)
	if a.comma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

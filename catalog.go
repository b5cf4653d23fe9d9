package bpfix

import (
	"regexp"
	"strings"

	"github.com/rockstardevs/bpfix/ofx"
)

// Markers found at the start of Banque Populaire transaction names.
const (
	MarkerSubscription     = "COTIS"
	MarkerTransferShort    = "VIR"
	MarkerTransferLong     = "VIREMENT"
	MarkerInternalTransfer = "EVI"
	MarkerSEPADirectDebit  = "PRLV SEPA"
	MarkerLoan             = "ECHEANCE PRET"
	MarkerCheck            = "CHEQUE"
	MarkerATM              = "RET DAB"
	MarkerCommission       = "COMMISSION FACTURETTE CB"
)

// Card payment kinds.
const (
	CardDebit       = "CB"
	CardContactless = "SC"
)

// typeMarkers are the markers that give away the transaction type. The loan
// marker is matched on the whole name instead.
var typeMarkers = []string{
	MarkerSubscription,
	MarkerTransferShort,
	MarkerTransferLong,
	MarkerInternalTransfer,
	MarkerSEPADirectDebit,
	MarkerCheck,
	MarkerATM,
	MarkerCommission,
}

var markerTypes = map[string]ofx.TransactionType{
	MarkerSubscription:     ofx.SERVICECHARGE,
	MarkerTransferShort:    ofx.TRANSFER,
	MarkerTransferLong:     ofx.TRANSFER,
	MarkerInternalTransfer: ofx.DEPOSIT,
	MarkerSEPADirectDebit:  ofx.REPEATPAYMENT,
	MarkerCheck:            ofx.CHECK,
	MarkerATM:              ofx.ATM,
	MarkerCommission:       ofx.SERVICECHARGE,
}

var (
	// "VIR M DUPONT", "RET DAB", ...
	typeInNamePattern = regexp.MustCompile(`^(?P<type>` + alternation(typeMarkers) + `)($| (?P<name>.*))`)
	// "150323 CB*123456789 BOULANGERIE", "150323 SC:*123456789"
	cardPattern = regexp.MustCompile(`^(?P<date>\d{6}) (?P<kind>` + CardDebit + `|` + CardContactless + `):?\*\d{9}( (?P<name>.*))?`)
	// "12345678 REMBOURSEMENT"
	transferMemoPattern = regexp.MustCompile(`^(?P<id>\d{8})($| (?P<memo>.*))`)
	// "DE 3 CHEQUE(S)"
	checkDepositPattern = regexp.MustCompile(`^DE \s*\d* CHEQUE\(S\)`)
)

// TypeForMarker returns the OFX transaction type the given marker stands for.
func TypeForMarker(marker string) (ofx.TransactionType, bool) {
	t, found := markerTypes[marker]
	return t, found
}

// Markers returns the markers recognized at the start of a transaction name.
func Markers() []string {
	return append([]string(nil), typeMarkers...)
}

func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return strings.Join(quoted, "|")
}

// group returns the named group of a match returned by re.FindStringSubmatch.
func group(re *regexp.Regexp, match []string, name string) string {
	return match[re.SubexpIndex(name)]
}

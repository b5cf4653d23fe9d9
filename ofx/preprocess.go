package ofx

import "regexp"

// rewrite is a one-off regular expression fix for malformed exports.
type rewrite struct {
	from *regexp.Regexp
	to   []byte
}

var rewrites = []rewrite{
	// Some exports omit the BANKACCTFROM aggregate start tag after the currency.
	{regexp.MustCompile(`(</CURDEF>\s*|<CURDEF>[A-Z]{3}\s+)(<BANKID>)`), []byte("$1<BANKACCTFROM>$2")},
}

// preprocessOFXData applies one-off transforms to fix bad data.
func preprocessOFXData(content []byte) []byte {
	for _, r := range rewrites {
		content = r.from.ReplaceAll(content, r.to)
	}
	return content
}

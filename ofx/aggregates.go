package ofx

import "sync"

// aggregateTags are the tags that hold other elements rather than a value. In
// SGML documents only their end tags can be relied on.
var aggregateTags = []string{
	"OFX",
	// Sign on.
	"SIGNONMSGSRSV1", "SONRS", "STATUS", "FI",
	// Bank statements.
	"BANKMSGSRSV1", "STMTTRNRS", "STMTRS", "BANKACCTFROM", "BANKACCTTO",
	"BANKTRANLIST", "STMTTRN", "LEDGERBAL", "AVAILBAL", "BALLIST", "BAL",
	"PAYEE", "CURRENCY", "ORIGCURRENCY",
	// Card statements and account lists some exports carry next to the bank statements.
	"CREDITCARDMSGSRSV1", "CCSTMTTRNRS", "CCSTMTRS", "CCACCTFROM", "CCACCTTO",
	"SIGNUPMSGSRSV1", "ACCTINFOTRNRS", "ACCTINFORS", "ACCTINFO",
}

var (
	aggregates     map[string]struct{}
	initAggregates sync.Once
)

// GetAggregates returns the set of aggregate tags.
func GetAggregates() map[string]struct{} {
	initAggregates.Do(func() {
		aggregates = make(map[string]struct{}, len(aggregateTags))
		for _, tag := range aggregateTags {
			aggregates[tag] = struct{}{}
		}
	})
	return aggregates
}

// IsAggregate returns true if the given tag is a known aggregate tag.
func IsAggregate(tag string) bool {
	_, found := GetAggregates()[tag]
	return found
}

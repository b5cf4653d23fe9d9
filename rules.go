package bpfix

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/rockstardevs/bpfix/ofx"
)

// Rule names, as they appear in reports.
const (
	RuleTypeFromName = "type-from-name"
	RuleCard         = "card"
	RuleTransfer     = "transfer"
	RuleATM          = "atm"
	RuleLoan         = "loan"
	RuleCheckDeposit = "check-deposit"
)

// Rule rewrites the transaction at index i of txns and returns true if it changed it.
// Rules get the whole statement since some of them look at sibling transactions.
type Rule struct {
	Name string
	Fix  func(txns []ofx.Transaction, i int) bool
}

// Rules lists every rule in the order it is applied. Later rules rely on the
// types set by earlier ones.
var Rules = []Rule{
	{RuleTypeFromName, FixTypeFromName},
	{RuleCard, single(FixCard)},
	{RuleTransfer, single(FixTransfer)},
	{RuleATM, single(FixATM)},
	{RuleLoan, single(FixLoan)},
	{RuleCheckDeposit, single(FixCheckDeposit)},
}

func single(fix func(*ofx.Transaction) bool) func([]ofx.Transaction, int) bool {
	return func(txns []ofx.Transaction, i int) bool {
		return fix(&txns[i])
	}
}

// FixTypeFromName sets the type from the marker the name starts with and strips
// the marker from the name. Commission lines are also split from their card payment.
func FixTypeFromName(txns []ofx.Transaction, i int) bool {
	txn := &txns[i]
	m := typeInNamePattern.FindStringSubmatch(txn.Name)
	if m == nil {
		return false
	}
	before := fieldsOf(txn)
	marker := group(typeInNamePattern, m, "type")
	if t, found := TypeForMarker(marker); found {
		txn.Type = t
	}
	if name := group(typeInNamePattern, m, "name"); name != "" {
		txn.Name = name
	}
	split := false
	if marker == MarkerCommission {
		split = FixCommission(txns, i)
	}
	return split || fieldsOf(txn) != before
}

// FixCard turns "<date> CB*<card> ..." names into payments named after the memo.
func FixCard(txn *ofx.Transaction) bool {
	m := cardPattern.FindStringSubmatch(txn.Name)
	if m == nil {
		return false
	}
	txn.Type = ofx.PAYMENT
	txn.Name = txn.Memo
	txn.Memo = fmt.Sprintf("%s %s", group(cardPattern, m, "kind"), group(cardPattern, m, "date"))
	return true
}

// FixTransfer turns debits whose memo starts with a transfer reference into
// transfers. The check number of every transfer is cleared, whatever rule set the type.
func FixTransfer(txn *ofx.Transaction) bool {
	changed := false
	if txn.Type == ofx.DEBIT {
		if m := transferMemoPattern.FindStringSubmatch(txn.Memo); m != nil {
			txn.Type = ofx.TRANSFER
			if memo := group(transferMemoPattern, m, "memo"); memo != "" {
				txn.Memo = fmt.Sprintf("%s (%s)", memo, group(transferMemoPattern, m, "id"))
			}
			changed = true
		}
	}
	if txn.Type == ofx.TRANSFER && txn.CheckNumber != "" {
		txn.CheckNumber = ""
		changed = true
	}
	return changed
}

// FixATM moves the ATM location to the memo and names the withdrawal after the ATM marker.
func FixATM(txn *ofx.Transaction) bool {
	// A name that is already the bare marker was fixed by an earlier run. Skipping
	// it keeps the rule idempotent, so a withdrawal the bank itself named "RET DAB"
	// keeps its memo as is instead of gaining a "RET DAB" prefix.
	if txn.Type != ofx.ATM || txn.Name == MarkerATM {
		return false
	}
	txn.Memo = fmt.Sprintf("%s %s", txn.Name, txn.Memo)
	txn.Name = MarkerATM
	return true
}

// FixLoan moves the loan reference the bank stores in CHECKNUM to the name.
func FixLoan(txn *ofx.Transaction) bool {
	if txn.Name != MarkerLoan {
		return false
	}
	txn.Name = fmt.Sprintf("%s %s", txn.Name, txn.CheckNumber)
	txn.CheckNumber = ""
	return true
}

// FixCheckDeposit turns "DE <n> CHEQUE(S)" deposits into checks, keeping the
// original name as memo.
func FixCheckDeposit(txn *ofx.Transaction) bool {
	if !checkDepositPattern.MatchString(txn.Name) {
		return false
	}
	txn.Type = ofx.CHECK
	txn.Memo = txn.Name
	txn.Name = MarkerCheck
	return true
}

// FixTransaction applies every rule to the transaction at index i of txns and
// returns one Change per rule that rewrote it.
func FixTransaction(txns []ofx.Transaction, i int) []Change {
	var changes []Change
	for _, r := range Rules {
		before := fieldsOf(&txns[i])
		if !r.Fix(txns, i) {
			continue
		}
		after := fieldsOf(&txns[i])
		glog.V(2).Infof("%s %s: %s -> %s", r.Name, txns[i].ID, before, after)
		changes = append(changes, Change{
			FITID:  txns[i].ID,
			Date:   postedDate(&txns[i]),
			Amount: txns[i].Amount.String(),
			Rule:   r.Name,
			Before: before,
			After:  after,
		})
	}
	return changes
}

// postedDate returns the posting day of txn as YYYY-MM-DD, or "" when DTPOSTED
// can not be parsed.
func postedDate(txn *ofx.Transaction) string {
	t, err := ofx.ParseDate(txn.Posted, nil)
	if err != nil {
		glog.V(2).Infof("%s: %v", txn.ID, err)
		return ""
	}
	return t.Format("2006-01-02")
}

// Fields are the transaction fields the rules rewrite.
type Fields struct {
	Type        ofx.TransactionType `json:"type" yaml:"type"`
	Name        string              `json:"name" yaml:"name"`
	Memo        string              `json:"memo,omitempty" yaml:"memo,omitempty"`
	CheckNumber string              `json:"checknum,omitempty" yaml:"checknum,omitempty"`
}

func fieldsOf(txn *ofx.Transaction) Fields {
	return Fields{Type: txn.Type, Name: txn.Name, Memo: txn.Memo, CheckNumber: txn.CheckNumber}
}

func (f Fields) String() string {
	return fmt.Sprintf("%s %q %q %q", f.Type, f.Name, f.Memo, f.CheckNumber)
}

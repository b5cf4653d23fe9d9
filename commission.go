package bpfix

import (
	"strings"

	"github.com/golang/glog"

	"github.com/rockstardevs/bpfix/ofx"
)

// FixCommission handles the fee the bank charges on some card payments. The
// commission line carries the card payment label in its memo, while the payment
// itself and the commission share a check number. The commission is renamed
// after the merchant, and the merchant name of every other transaction with the
// same check number is cut down to the name found in the label.
func FixCommission(txns []ofx.Transaction, i int) bool {
	txn := &txns[i]
	m := cardPattern.FindStringSubmatch(txn.Memo)
	if m == nil {
		return false
	}
	merchant := group(cardPattern, m, "name")
	txn.Name = merchant
	txn.Memo = group(cardPattern, m, "date")

	// Every name starts with the empty string.
	if merchant == "" {
		return true
	}
	for j := range txns {
		other := &txns[j]
		if j == i || other.CheckNumber != txn.CheckNumber {
			continue
		}
		if strings.HasPrefix(other.Name, merchant) && other.Name != merchant {
			glog.V(2).Infof("commission %s: name of %s %q -> %q", txn.ID, other.ID, other.Name, merchant)
			other.Name = merchant
		}
		if strings.HasPrefix(other.Memo, merchant) && other.Memo != merchant {
			glog.V(2).Infof("commission %s: memo of %s %q -> %q", txn.ID, other.ID, other.Memo, merchant)
			other.Memo = merchant
		}
	}
	return true
}

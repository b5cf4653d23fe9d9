package bpfix

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/rockstardevs/bpfix/ofx"
)

// DefaultSuffix is inserted before the extension of the input path to name the output file.
const DefaultSuffix = "_corrected"

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/rockstardevs/bpfix Store

// Store loads and saves OFX documents.
type Store interface {
	Load(path string) (*ofx.Document, error)
	Save(doc *ofx.Document, path string) error
}

// Fixer applies the rules to whole documents.
type Fixer struct {
	store Store
	// DryRun skips saving the fixed document.
	DryRun bool
}

// NewFixer returns a Fixer loading and saving documents with store.
func NewFixer(store Store) *Fixer {
	return &Fixer{store: store}
}

// FixDocument applies every rule to every transaction of doc, statement by
// statement, in document order.
func (f *Fixer) FixDocument(doc *ofx.Document) *Report {
	report := newReport()
	for _, stmt := range doc.Statements() {
		report.Statements++
		for i := range stmt.TransactionList.Transactions {
			report.Transactions++
			changes := FixTransaction(stmt.TransactionList.Transactions, i)
			for _, c := range changes {
				c.Account = stmt.Account.ID
				report.add(c)
			}
		}
	}
	return report
}

// FixFile loads the document at in, fixes it and saves it to out. Nothing is
// written when the document can not be loaded.
func (f *Fixer) FixFile(in, out string) (*Report, error) {
	doc, err := f.store.Load(in)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", in, err)
	}
	report := f.FixDocument(doc)
	report.Input = in
	if f.DryRun {
		glog.Infof("dry run, %d of %d transactions would be fixed", report.Fixed(), report.Transactions)
		return report, nil
	}
	if err := f.store.Save(doc, out); err != nil {
		return nil, fmt.Errorf("saving %s: %w", out, err)
	}
	report.Output = out
	glog.Infof("fixed %d of %d transactions in %d statements, written to %s",
		report.Fixed(), report.Transactions, report.Statements, out)
	return report, nil
}

// FixFile fixes the OFX file at in and writes the result to out.
func FixFile(in, out string) (*Report, error) {
	return NewFixer(ofx.NewFileStore()).FixFile(in, out)
}

// OutputPath returns path with suffix inserted before its extension.
func OutputPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

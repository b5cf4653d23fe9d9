package bpfix

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatNone = "none"
)

// Change is one rule rewriting one transaction.
type Change struct {
	Account string `json:"account" yaml:"account"`
	FITID   string `json:"fitid" yaml:"fitid"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Amount  string `json:"amount" yaml:"amount"`
	Rule    string `json:"rule" yaml:"rule"`
	Before  Fields `json:"before" yaml:"before"`
	After   Fields `json:"after" yaml:"after"`
}

// Report summarizes a run.
type Report struct {
	Input        string         `json:"input,omitempty" yaml:"input,omitempty"`
	Output       string         `json:"output,omitempty" yaml:"output,omitempty"`
	Statements   int            `json:"statements" yaml:"statements"`
	Transactions int            `json:"transactions" yaml:"transactions"`
	Applied      map[string]int `json:"applied" yaml:"applied"`
	Changes      []Change       `json:"changes" yaml:"changes"`
}

func newReport() *Report {
	return &Report{Applied: make(map[string]int), Changes: make([]Change, 0)}
}

func (r *Report) add(c Change) {
	r.Applied[c.Rule]++
	r.Changes = append(r.Changes, c)
}

// Fixed returns the number of transactions at least one rule rewrote.
func (r *Report) Fixed() int {
	seen := make(map[string]struct{})
	for _, c := range r.Changes {
		seen[c.Account+"/"+c.FITID] = struct{}{}
	}
	return len(seen)
}

// Write writes the report to w in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.writeText(w)
	case FormatJSON:
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(pretty.Pretty(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatNone:
		return nil
	}
	return fmt.Errorf("unknown report format %q", format)
}

func (r *Report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "statements:\t%d\n", r.Statements)
	fmt.Fprintf(tw, "transactions:\t%d\n", r.Transactions)
	fmt.Fprintf(tw, "fixed:\t%d\n", r.Fixed())
	for _, rule := range Rules {
		if n := r.Applied[rule.Name]; n > 0 {
			fmt.Fprintf(tw, "  %s:\t%d\n", rule.Name, n)
		}
	}
	if len(r.Changes) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "DATE\tFITID\tRULE\tTYPE\tNAME\tMEMO")
		for _, c := range r.Changes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Date, c.FITID, c.Rule, c.After.Type, c.After.Name, c.After.Memo)
		}
	}
	if r.Output != "" {
		fmt.Fprintf(tw, "\nwritten to %s\n", r.Output)
	}
	return tw.Flush()
}

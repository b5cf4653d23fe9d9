package ofx

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// DefaultIndent is the indentation used by Document.Write.
const DefaultIndent = "  "

// OFX 1.x readers only understand the &lt; &gt; and &amp; entities. Quotes are
// written literally since OFX bodies carry no attribute values.
var quoteUnescaper = strings.NewReplacer("&#34;", `"`, "&#39;", "'")

// Writer serializes a Document as its original header followed by an XML body.
type Writer struct {
	// Indent is repeated once per nesting level. An empty Indent writes the body on a single line.
	Indent string
}

// Write renders the whole document in memory, then writes it to w.
func (wr Writer) Write(w io.Writer, d *Document) error {
	var (
		body []byte
		err  error
	)
	if wr.Indent == "" {
		body, err = xml.Marshal(d)
	} else {
		body, err = xml.MarshalIndent(d, "", wr.Indent)
	}
	if err != nil {
		return err
	}
	body = []byte(quoteUnescaper.Replace(string(body)))
	if body, err = encodeBody(d.Header, body); err != nil {
		return err
	}

	var out bytes.Buffer
	out.Grow(len(d.Header.Raw) + len(body) + 1)
	out.Write(d.Header.Raw)
	out.Write(body)
	out.WriteByte('\n')
	_, err = w.Write(out.Bytes())
	return err
}

// Write writes the document to w using DefaultIndent.
func (d *Document) Write(w io.Writer) error {
	return Writer{Indent: DefaultIndent}.Write(w, d)
}

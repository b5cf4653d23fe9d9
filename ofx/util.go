package ofx

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// escapeString escapes s for use as XML character data. Characters outside the
// XML character range are replaced with U+FFFD.
func escapeString(s string) string {
	var b strings.Builder
	// strings.Builder never fails to write.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// qualified returns the name as it appeared in the source, prefix included.
// RawToken leaves the prefix in Space.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func writeStartTag(buf *bytes.Buffer, e *xml.StartElement) {
	buf.WriteByte('<')
	buf.WriteString(qualified(e.Name))
	for _, attr := range e.Attr {
		if attr.Name.Local == "" {
			continue
		}
		buf.WriteByte(' ')
		buf.WriteString(qualified(attr.Name))
		buf.WriteString(`="`)
		buf.WriteString(escapeString(attr.Value))
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
}

func writeEndTag(buf *bytes.Buffer, n xml.Name) {
	buf.WriteString("</")
	buf.WriteString(qualified(n))
	buf.WriteByte('>')
}

// writeElement writes a complete element holding the already escaped data.
func writeElement(buf *bytes.Buffer, e *xml.StartElement, data string) {
	writeStartTag(buf, e)
	buf.WriteString(data)
	writeEndTag(buf, e.Name)
}

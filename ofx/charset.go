package ofx

import (
	"strings"
	"unicode/utf8"

	"github.com/golang/glog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset returns the text encoding declared by the header.
// Undeclared or unknown charsets are treated as UTF-8.
func (h Header) Charset() encoding.Encoding {
	if h.charset != nil {
		return h.charset
	}
	return declaredCharset(h)
}

func declaredCharset(h Header) encoding.Encoding {
	switch strings.ToUpper(h.Get("ENCODING")) {
	case "UTF-8", "UTF8", "UNICODE":
		return encoding.Nop
	case "ISO-8859-1", "LATIN1":
		return charmap.ISO8859_1
	case "WINDOWS-1252":
		return charmap.Windows1252
	}
	switch strings.ToUpper(h.Get("CHARSET")) {
	case "1252", "WINDOWS-1252":
		return charmap.Windows1252
	case "ISO-8859-1", "8859-1", "ISOLATIN1", "LATIN1":
		return charmap.ISO8859_1
	case "ISO-8859-15", "8859-15":
		return charmap.ISO8859_15
	}
	return encoding.Nop
}

// decodeBody converts the body to UTF-8 and records the charset on the header.
// A body that is declared UTF-8 but is not valid UTF-8 is read as Windows-1252.
func decodeBody(h *Header, body []byte) ([]byte, error) {
	cs := declaredCharset(*h)
	if cs == encoding.Nop && !utf8.Valid(body) {
		glog.Warningf("body is not valid UTF-8, reading it as windows-1252")
		cs = charmap.Windows1252
	}
	h.charset = cs
	if cs == encoding.Nop {
		return body, nil
	}
	return cs.NewDecoder().Bytes(body)
}

// encodeBody converts a UTF-8 body back to the header charset.
// Characters the charset can not represent are replaced.
func encodeBody(h Header, body []byte) ([]byte, error) {
	cs := h.Charset()
	if cs == encoding.Nop {
		return body, nil
	}
	return encoding.ReplaceUnsupported(cs.NewEncoder()).Bytes(body)
}

package ofx

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
)

var errMissingOFXTag = errors.New("error - invalid file, OFX tag not found")

var (
	// OFX 2.x processing instruction, e.g. <?OFX OFXHEADER="200" VERSION="211" ...?>
	ofxPIPattern = regexp.MustCompile(`<\?OFX\s+([^?]*)\?>`)
	// XML declaration, e.g. <?xml version="1.0" encoding="UTF-8"?>
	xmlDeclPattern = regexp.MustCompile(`<\?xml\s+([^?]*)\?>`)
	attrPattern    = regexp.MustCompile(`([A-Za-z][\w.-]*)\s*=\s*"([^"]*)"`)
)

// Header is everything preceding the <OFX> root element.
type Header struct {
	// Raw holds the header bytes exactly as read. They are written back verbatim.
	Raw []byte
	// Fields holds the header values keyed by upper case name.
	Fields map[string]string
	// XML is true for OFX 2.x documents.
	XML bool

	charset encoding.Encoding
}

// splitHeader separates the header from the body. The returned body starts with <OFX>.
func splitHeader(data []byte) (Header, []byte, error) {
	idx := bytes.Index(data, []byte("<OFX>"))
	if idx == -1 {
		return Header{}, nil, errMissingOFXTag
	}
	h := parseHeader(data[:idx])
	return h, data[idx:], nil
}

// parseHeader parses OFX 1.x KEY:VALUE lines or OFX 2.x processing instructions.
func parseHeader(raw []byte) Header {
	h := Header{
		Raw:    append([]byte(nil), raw...),
		Fields: make(map[string]string),
	}
	text := string(raw)
	if m := ofxPIPattern.FindStringSubmatch(text); m != nil {
		h.XML = true
		for _, attr := range attrPattern.FindAllStringSubmatch(m[1], -1) {
			h.Fields[strings.ToUpper(attr[1])] = attr[2]
		}
		if d := xmlDeclPattern.FindStringSubmatch(text); d != nil {
			for _, attr := range attrPattern.FindAllStringSubmatch(d[1], -1) {
				if strings.EqualFold(attr[1], "encoding") {
					h.Fields["ENCODING"] = attr[2]
				}
			}
		}
		return h
	}
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), ":")
		if !found || key == "" {
			continue
		}
		h.Fields[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return h
}

// Get returns the value of the given header field, or an empty string.
func (h Header) Get(key string) string {
	return h.Fields[strings.ToUpper(key)]
}

// Version returns the OFX version declared by the header, e.g. "102" or "211".
func (h Header) Version() string {
	return h.Get("VERSION")
}

// IsXML returns true if the header declares an OFX 2.x XML document.
func (h Header) IsXML() bool {
	return h.XML
}

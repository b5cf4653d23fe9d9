package ofx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/golang/glog"
)

// Cleaner cleans the given data to return valid XML.
type Cleaner interface {
	CleanupXML(data []byte) (*bytes.Buffer, error)
}

type cleaner struct{}

var (
	cleanerSingleton *cleaner
	initCleaner      sync.Once
)

// GetCleaner returns the singleton instance of cleaner.
func GetCleaner() Cleaner {
	initCleaner.Do(func() {
		cleanerSingleton = &cleaner{}
	})
	return cleanerSingleton
}

// CleanupXML returns the body starting at <OFX> as well formed XML. Elements
// missing their end tag are closed after their value, and aggregates are
// closed when an enclosing aggregate ends or the data runs out.
func (cleaner) CleanupXML(data []byte) (*bytes.Buffer, error) {
	start := bytes.Index(data, []byte("<OFX>"))
	if start == -1 {
		return nil, errMissingOFXTag
	}

	decoder := xml.NewDecoder(bytes.NewReader(data[start:]))
	// Bank exports carry unescaped '&' in names.
	decoder.Strict = false

	c := &cleanup{open: NewStack()}
	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.CharData:
			c.value = escapeString(strings.TrimSpace(string(t)))
		case xml.StartElement:
			err = c.startElement(t)
		case xml.EndElement:
			err = c.endElement(t)
		}
		if err != nil {
			return nil, err
		}
	}
	c.finish()
	return &c.out, nil
}

// cleanup is the state of a single CleanupXML call.
type cleanup struct {
	out     bytes.Buffer
	open    TagStack
	pending *xml.StartElement // element start tag whose value is not written yet
	value   string            // escaped text read since the last tag
}

func (c *cleanup) startElement(t xml.StartElement) error {
	glog.V(3).Infof("start %s, value %q, pending %v", t.Name.Local, c.value, c.pending)
	// Text followed by a start tag means the pending element was never closed.
	if c.value != "" {
		if c.pending == nil {
			return fmt.Errorf("error: charData(%s) missing start and end tags", c.value)
		}
		c.writePending()
	}

	e := t.Copy()
	if !IsAggregate(e.Name.Local) {
		c.pending = &e
		return nil
	}
	c.open.Push(&e)
	writeStartTag(&c.out, &e)
	glog.V(3).Infof("open: %v", c.open.Names())
	return nil
}

func (c *cleanup) endElement(t xml.EndElement) error {
	glog.V(3).Infof("end %s, value %q, pending %v", t.Name.Local, c.value, c.pending)
	aggregate := IsAggregate(t.Name.Local)
	if c.value != "" {
		switch {
		case c.pending != nil && !aggregate && c.pending.Name != t.Name:
			// Either the pending element or this one lacks a tag, there is no telling which.
			return fmt.Errorf("error: charData(%s) has ambigious closing tags", c.value)
		case c.pending == nil && aggregate:
			return fmt.Errorf("error: charData(%s) missing start and end tags", c.value)
		case c.pending == nil:
			c.pending = &xml.StartElement{Name: t.Name}
		}
		c.writePending()
	}
	if !aggregate {
		return nil
	}
	if !c.open.Contains(t.Name.Local) {
		glog.V(3).Infof("dropping end tag of %s, it was never opened", t.Name.Local)
		return nil
	}
	c.close(t.Name.Local)
	glog.V(3).Infof("open: %v", c.open.Names())
	return nil
}

// finish flushes the value left at the end of the data and closes every
// aggregate a truncated document left open.
func (c *cleanup) finish() {
	if c.value != "" && c.pending != nil {
		c.writePending()
	}
	c.close("")
}

func (c *cleanup) writePending() {
	writeElement(&c.out, c.pending, c.value)
	c.pending, c.value = nil, ""
}

// close writes end tags for the open aggregates up to and including name.
func (c *cleanup) close(name string) {
	for _, e := range c.open.PopUntil(name) {
		writeEndTag(&c.out, e.Name)
	}
}

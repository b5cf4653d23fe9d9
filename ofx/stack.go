package ofx

import (
	"encoding/xml"
	"errors"
)

// TagStack holds the aggregates left open while an SGML body is cleaned,
// outermost first.
type TagStack interface {
	Push(*xml.StartElement)
	Pop() (*xml.StartElement, error)
	// PopUntil pops elements up to and including the innermost one named name,
	// or every element if there is none, and returns them innermost first.
	PopUntil(name string) []*xml.StartElement
	Contains(name string) bool
	Len() int
	Names() []string
}

type tagStack []*xml.StartElement

// NewStack returns an empty TagStack.
func NewStack() TagStack {
	s := make(tagStack, 0, 16)
	return &s
}

func (s *tagStack) Push(t *xml.StartElement) {
	*s = append(*s, t)
}

func (s *tagStack) Pop() (*xml.StartElement, error) {
	n := len(*s)
	if n == 0 {
		return nil, errors.New("error - popping from empty stack")
	}
	top := (*s)[n-1]
	*s = (*s)[:n-1]
	return top, nil
}

func (s *tagStack) PopUntil(name string) []*xml.StartElement {
	var popped []*xml.StartElement
	for len(*s) > 0 {
		top, _ := s.Pop()
		popped = append(popped, top)
		if top.Name.Local == name {
			break
		}
	}
	return popped
}

func (s *tagStack) Contains(name string) bool {
	for i := len(*s) - 1; i >= 0; i-- {
		if (*s)[i].Name.Local == name {
			return true
		}
	}
	return false
}

func (s *tagStack) Len() int {
	return len(*s)
}

// Names lists the local names on the stack, for tracing.
func (s *tagStack) Names() []string {
	names := make([]string, len(*s))
	for i, t := range *s {
		names[i] = t.Name.Local
	}
	return names
}

package formatter

import (
	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// Filter sits between the parser and the standard element handling. Element events are offered to a TagHandler
// first; the events it handles are consumed, and everything else is forwarded to the next handler unchanged.
type Filter struct {
	handler *TagHandler
	next    sax.ContentHandler
	out     *spanned.Buffer
}

// NewFilter creates a Filter that offers elements to handler and forwards the rest to next. out must be the buffer
// next writes into.
func NewFilter(handler *TagHandler, next sax.ContentHandler, out *spanned.Buffer) *Filter {
	return &Filter{handler: handler, next: next, out: out}
}

// StartDocument implements sax.ContentHandler.
func (f *Filter) StartDocument() error {
	return f.next.StartDocument()
}

// EndDocument implements sax.ContentHandler.
func (f *Filter) EndDocument() error {
	return f.next.EndDocument()
}

// StartElement implements sax.ContentHandler.
func (f *Filter) StartElement(name string, attrs sax.Attributes) error {
	if f.handler.HandleTag(true, name, f.out, attrs) {
		return nil
	}
	return f.next.StartElement(name, attrs)
}

// EndElement implements sax.ContentHandler.
func (f *Filter) EndElement(name string) error {
	if f.handler.HandleTag(false, name, f.out, nil) {
		return nil
	}
	return f.next.EndElement(name)
}

// Characters implements sax.ContentHandler.
func (f *Filter) Characters(text string) error {
	return f.next.Characters(text)
}

// IgnorableWhitespace implements sax.ContentHandler.
func (f *Filter) IgnorableWhitespace(text string) error {
	return f.next.IgnorableWhitespace(text)
}

// ProcessingInstruction implements sax.ContentHandler.
func (f *Filter) ProcessingInstruction(target, data string) error {
	return f.next.ProcessingInstruction(target, data)
}

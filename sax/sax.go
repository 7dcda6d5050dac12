// Package sax turns the token stream of golang.org/x/net/html into SAX-style content handler callbacks.
package sax

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// An Attribute is a single attribute of an element.
type Attribute struct {
	Name  string
	Value string
}

// Attributes holds the attributes of a start element, in document order.
type Attributes []Attribute

// Value returns the value of the named attribute, if present. Attribute names are matched case-insensitively.
func (a Attributes) Value(name string) (string, bool) {
	for _, attr := range a {
		if strings.EqualFold(attr.Name, name) {
			return attr.Value, true
		}
	}
	return "", false
}

// A ContentHandler receives the events of a streaming parse.
type ContentHandler interface {
	StartDocument() error
	EndDocument() error
	StartElement(name string, attrs Attributes) error
	EndElement(name string) error
	Characters(text string) error
	IgnorableWhitespace(text string) error
	ProcessingInstruction(target, data string) error
}

type options struct {
	maxBuf int
}

// A ParseOption configures Parse.
type ParseOption func(opts *options)

// WithMaxBuffer limits the amount of markup the tokenizer will buffer for a single token. A token that exceeds the
// limit fails the parse with html.ErrBufferExceeded. Zero means no limit.
func WithMaxBuffer(n int) ParseOption {
	return func(opts *options) {
		opts.maxBuf = n
	}
}

// Parse tokenizes the HTML read from r and delivers the resulting events to h. Self-closing tags are delivered as a
// start element immediately followed by an end element. Comments and doctypes are dropped, except for bogus comments
// of the form <?target data?>, which are delivered as processing instructions.
//
// Parse stops at the first error returned by the handler or by the tokenizer.
func Parse(r io.Reader, h ContentHandler, parseOptions ...ParseOption) error {
	var opts options
	for _, o := range parseOptions {
		o(&opts)
	}

	z := html.NewTokenizer(r)
	if opts.maxBuf > 0 {
		z.SetMaxBuf(opts.maxBuf)
	}

	if err := h.StartDocument(); err != nil {
		return err
	}

	for {
		tt := z.Next()
		var err error
		switch tt {
		case html.ErrorToken:
			if zerr := z.Err(); !errors.Is(zerr, io.EOF) {
				return fmt.Errorf("tokenizing: %w", zerr)
			}
			return h.EndDocument()
		case html.TextToken:
			text := string(z.Text())
			if strings.TrimSpace(text) == "" {
				err = h.IgnorableWhitespace(text)
			} else {
				err = h.Characters(text)
			}
		case html.StartTagToken:
			name, attrs := tagOf(z)
			err = h.StartElement(name, attrs)
		case html.SelfClosingTagToken:
			name, attrs := tagOf(z)
			if err = h.StartElement(name, attrs); err == nil {
				err = h.EndElement(name)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			err = h.EndElement(string(name))
		case html.CommentToken:
			// The tokenizer reports <?...> as a bogus comment.
			raw := string(z.Raw())
			if strings.HasPrefix(raw, "<?") {
				target, data := splitInstruction(strings.TrimSuffix(strings.TrimPrefix(raw, "<?"), ">"))
				err = h.ProcessingInstruction(target, data)
			}
		}
		if err != nil {
			return err
		}
	}
}

func tagOf(z *html.Tokenizer) (string, Attributes) {
	name, hasAttr := z.TagName()
	var attrs Attributes
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs = append(attrs, Attribute{Name: string(key), Value: string(val)})
	}
	return string(name), attrs
}

func splitInstruction(s string) (string, string) {
	s = strings.TrimSuffix(s, "?")
	target, data, _ := strings.Cut(s, " ")
	return target, strings.TrimSpace(data)
}

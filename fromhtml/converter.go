// Package fromhtml implements the standard handling of HTML elements: it consumes parse events and writes styled
// text into a spanned.Buffer. Elements it does not know are ignored.
package fromhtml

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// ObjectReplacement is the character that stands in for an image in the output text.
const ObjectReplacement = "\uFFFC"

// An ImageGetter resolves the source of an <img> element to a drawable. It returns nil if the image cannot be
// resolved.
type ImageGetter interface {
	GetImage(source string) *spanned.Drawable
}

// ImageGetterFunc adapts a function to the ImageGetter interface.
type ImageGetterFunc func(source string) *spanned.Drawable

// GetImage implements ImageGetter.
func (f ImageGetterFunc) GetImage(source string) *spanned.Drawable {
	return f(source)
}

var headingSizes = [...]float64{1.5, 1.4, 1.3, 1.2, 1.1, 1.0}

type openElement struct {
	mark   *spanned.Mark
	styles []spanned.Style
	block  bool
}

// Converter is a sax.ContentHandler that converts standard HTML elements into styled text.
type Converter struct {
	out    *spanned.Buffer
	images ImageGetter
	logger *log.Logger

	open map[string][]openElement
	skip int
}

// An Option configures a Converter.
type Option func(c *Converter)

// WithImageGetter sets the ImageGetter used to resolve <img> elements.
func WithImageGetter(images ImageGetter) Option {
	return func(c *Converter) {
		c.images = images
	}
}

// WithLogger sets the logger used by the converter.
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// NewConverter creates a Converter that writes into out.
func NewConverter(out *spanned.Buffer, options ...Option) *Converter {
	c := &Converter{
		out:  out,
		open: map[string][]openElement{},
	}
	for _, o := range options {
		o(c)
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// Buffer returns the buffer the converter writes into.
func (c *Converter) Buffer() *spanned.Buffer {
	return c.out
}

// StartDocument implements sax.ContentHandler.
func (c *Converter) StartDocument() error {
	return nil
}

// EndDocument implements sax.ContentHandler.
func (c *Converter) EndDocument() error {
	return nil
}

// ProcessingInstruction implements sax.ContentHandler.
func (c *Converter) ProcessingInstruction(target, data string) error {
	return nil
}

// StartElement implements sax.ContentHandler.
func (c *Converter) StartElement(name string, attrs sax.Attributes) error {
	tag := strings.ToLower(name)
	switch tag {
	case "script", "style", "head", "title":
		c.skip++
	case "br":
		_ = c.out.WriteByte('\n')
	case "p", "div", "ul", "ol", "dl", "pre", "hr":
		c.appendNewlines(2)
	case "li", "dt", "dd":
		c.appendNewlines(1)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		c.appendNewlines(2)
		c.push(tag, true, spanned.RelativeSize{Proportion: headingSizes[level-1]}, spanned.Bold{}, spanned.Heading{Level: level})
	case "blockquote":
		c.appendNewlines(2)
		c.push(tag, true, spanned.Quote{})
	case "b", "strong":
		c.push(tag, false, spanned.Bold{})
	case "i", "em", "cite", "dfn", "var":
		c.push(tag, false, spanned.Italic{})
	case "u", "ins":
		c.push(tag, false, spanned.Underline{})
	case "del":
		c.push(tag, false, spanned.Strikethrough{})
	case "big":
		c.push(tag, false, spanned.RelativeSize{Proportion: 1.25})
	case "small":
		c.push(tag, false, spanned.RelativeSize{Proportion: 0.8})
	case "tt", "kbd", "samp":
		c.push(tag, false, spanned.Typeface{Family: spanned.Monospace})
	case "sup":
		c.push(tag, false, spanned.Superscript{})
	case "sub":
		c.push(tag, false, spanned.Subscript{})
	case "a":
		href, _ := attrs.Value("href")
		c.push(tag, false, &spanned.Link{URL: href})
	case "font":
		c.push(tag, false, fontStyles(attrs)...)
	case "span":
		c.push(tag, false, inlineStyles(attrs)...)
	case "img":
		c.image(attrs)
	}
	return nil
}

// EndElement implements sax.ContentHandler.
func (c *Converter) EndElement(name string) error {
	tag := strings.ToLower(name)
	switch tag {
	case "script", "style", "head", "title":
		if c.skip > 0 {
			c.skip--
		}
	case "p", "div", "ul", "ol", "dl", "pre", "hr":
		c.appendNewlines(2)
	case "li", "dt", "dd":
		c.appendNewlines(1)
	default:
		c.pop(tag)
	}
	return nil
}

// Characters implements sax.ContentHandler. Runs of whitespace collapse to a single space, and whitespace that
// follows a space or a newline is dropped.
func (c *Converter) Characters(text string) error {
	if c.skip > 0 {
		return nil
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == ' ' || ch == '\n' || ch == '\t' || ch == '\r' || ch == '\f' {
			var pred byte
			if sb.Len() == 0 {
				last, ok := c.out.LastByte()
				if !ok {
					last = '\n'
				}
				pred = last
			} else {
				s := sb.String()
				pred = s[len(s)-1]
			}
			if pred != ' ' && pred != '\n' {
				sb.WriteByte(' ')
			}
		} else {
			sb.WriteByte(ch)
		}
	}
	_, _ = c.out.WriteString(sb.String())
	return nil
}

// IgnorableWhitespace implements sax.ContentHandler. HTML whitespace between elements is significant, so it is
// treated like any other character data.
func (c *Converter) IgnorableWhitespace(text string) error {
	return c.Characters(text)
}

func (c *Converter) push(tag string, block bool, styles ...spanned.Style) {
	c.open[tag] = append(c.open[tag], openElement{
		mark:   c.out.Mark(),
		styles: styles,
		block:  block,
	})
}

func (c *Converter) pop(tag string) {
	stack := c.open[tag]
	if len(stack) == 0 {
		return
	}
	e := stack[len(stack)-1]
	c.open[tag] = stack[:len(stack)-1]

	start, end := e.mark.Pos(), c.out.Len()
	c.out.Unmark(e.mark)
	if start != end {
		for _, s := range e.styles {
			c.out.SetSpan(s, start, end)
		}
	}
	if e.block {
		c.appendNewlines(2)
	}
}

func (c *Converter) image(attrs sax.Attributes) {
	src, _ := attrs.Value("src")
	alt, _ := attrs.Value("alt")

	var d *spanned.Drawable
	if c.images != nil {
		d = c.images.GetImage(src)
	}
	if d == nil {
		c.logger.Debug("image not resolved", "source", src)
	}

	start := c.out.Len()
	_, _ = c.out.WriteString(ObjectReplacement)
	c.out.SetSpan(&spanned.Image{Source: src, Alt: alt, Drawable: d}, start, c.out.Len())
}

// appendNewlines ensures that the buffer ends with at least n newlines. Nothing is appended to an empty buffer.
func (c *Converter) appendNewlines(n int) {
	length := c.out.Len()
	if length == 0 {
		return
	}

	text := c.out.Slice(max(0, length-n), length)
	existing := 0
	for i := len(text) - 1; i >= 0 && text[i] == '\n'; i-- {
		existing++
	}
	for ; existing < n; existing++ {
		_ = c.out.WriteByte('\n')
	}
}

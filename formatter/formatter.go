// Package formatter converts HTML into styled text. It extends the standard element handling of package fromhtml
// with nested lists, links with click handlers, inline code, centered text, strikethrough and tables.
package formatter

import (
	"fmt"
	"strings"

	"github.com/rohitmishra4444/html-textview/fromhtml"
	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// Format converts html into styled text.
func Format(html string, options ...Option) (*spanned.Text, error) {
	opts := DefaultOptions()
	for _, o := range options {
		o(&opts)
	}
	return format(html, &opts)
}

func format(html string, opts *Options) (*spanned.Text, error) {
	logger := opts.logger()

	var out spanned.Buffer
	converter := fromhtml.NewConverter(&out, fromhtml.WithImageGetter(opts.ImageGetter), fromhtml.WithLogger(logger))
	filter := NewFilter(NewTagHandler(opts), converter, &out)

	var parseOptions []sax.ParseOption
	if opts.MaxBuffer > 0 {
		parseOptions = append(parseOptions, sax.WithMaxBuffer(opts.MaxBuffer))
	}
	if err := sax.Parse(strings.NewReader(OverrideTags(html)), filter, parseOptions...); err != nil {
		return nil, fmt.Errorf("formatting HTML: %w", err)
	}

	text := out.Text()
	if opts.TrimTrailingWhitespace {
		text = text.TrimTrailingNewlines()
	}
	logger.Debug("formatted", "len", text.Len(), "spans", len(text.Spans()))
	return text, nil
}

// Builder accumulates a formatting configuration. Unlike Format, a Builder may be used without any HTML, in which
// case there is nothing to format.
type Builder struct {
	html    *string
	options Options
}

// NewBuilder creates a Builder with the default configuration.
func NewBuilder() *Builder {
	return &Builder{options: DefaultOptions()}
}

// HTML sets the markup to format.
func (b *Builder) HTML(html string) *Builder {
	b.html = &html
	return b
}

// With applies options to the builder's configuration.
func (b *Builder) With(options ...Option) *Builder {
	for _, o := range options {
		o(&b.options)
	}
	return b
}

// ImageGetter sets the ImageGetter used to resolve <img> elements.
func (b *Builder) ImageGetter(images fromhtml.ImageGetter) *Builder {
	return b.With(WithImageGetter(images))
}

// ClickableTable sets the factory for clickable tables.
func (b *Builder) ClickableTable(factory ClickableTableFactory) *Builder {
	return b.With(WithClickableTable(factory))
}

// TableDrawer sets the factory for table drawers.
func (b *Builder) TableDrawer(factory TableDrawerFactory) *Builder {
	return b.With(WithTableDrawer(factory))
}

// LinkClickHandler sets the handler for link clicks.
func (b *Builder) LinkClickHandler(handler LinkClickHandler) *Builder {
	return b.With(WithLinkClickHandler(handler))
}

// ListIndent sets the indentation unit of lists.
func (b *Builder) ListIndent(indent float64) *Builder {
	return b.With(WithListIndent(indent))
}

// TrimTrailingWhitespace controls whether trailing newlines are removed from the result.
func (b *Builder) TrimTrailingWhitespace(on bool) *Builder {
	return b.With(WithTrimTrailingWhitespace(on))
}

// Options returns a copy of the builder's configuration.
func (b *Builder) Options() Options {
	return b.options
}

// Format converts the builder's markup into styled text. If no markup was set, Format returns nil and no error.
func (b *Builder) Format() (*spanned.Text, error) {
	if b.html == nil {
		return nil, nil
	}
	opts := b.options
	return format(*b.html, &opts)
}

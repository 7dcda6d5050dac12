package formatter

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/rohitmishra4444/html-textview/fromhtml"
	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// A ClickableTableFactory creates the clickable table attached to each root table.
type ClickableTableFactory interface {
	NewInstance() spanned.ClickableTable
}

// ClickableTableFactoryFunc adapts a function to the ClickableTableFactory interface.
type ClickableTableFactoryFunc func() spanned.ClickableTable

// NewInstance implements ClickableTableFactory.
func (f ClickableTableFactoryFunc) NewInstance() spanned.ClickableTable {
	return f()
}

// A TableDrawerFactory creates the drawer attached to each root table.
type TableDrawerFactory interface {
	NewInstance() spanned.TableDrawer
}

// TableDrawerFactoryFunc adapts a function to the TableDrawerFactory interface.
type TableDrawerFactoryFunc func() spanned.TableDrawer

// NewInstance implements TableDrawerFactory.
func (f TableDrawerFactoryFunc) NewInstance() spanned.TableDrawer {
	return f()
}

// A LinkClickHandler receives the URL of a clicked link.
type LinkClickHandler interface {
	OnLinkClick(ctx context.Context, url string) error
}

// LinkClickHandlerFunc adapts a function to the LinkClickHandler interface.
type LinkClickHandlerFunc func(ctx context.Context, url string) error

// OnLinkClick implements LinkClickHandler.
func (f LinkClickHandlerFunc) OnLinkClick(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Options holds the configuration of a formatting call. The zero value is not ready for use; see DefaultOptions.
type Options struct {
	ImageGetter      fromhtml.ImageGetter
	ClickableTable   ClickableTableFactory
	TableDrawer      TableDrawerFactory
	LinkClickHandler LinkClickHandler

	// ListIndent is the indentation unit of lists. Negative values select the default indentation.
	ListIndent float64

	// TrimTrailingWhitespace removes trailing newlines from the result.
	TrimTrailingWhitespace bool

	// MaxBuffer limits the bytes buffered for a single token. Zero means no limit.
	MaxBuffer int

	Logger *log.Logger
}

// DefaultOptions returns the default configuration: no image getter, no table handlers, default list indentation.
func DefaultOptions() Options {
	return Options{ListIndent: -1}
}

func (o *Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Default()
}

// An Option configures a formatting call.
type Option func(o *Options)

// WithImageGetter sets the ImageGetter used to resolve <img> elements.
func WithImageGetter(images fromhtml.ImageGetter) Option {
	return func(o *Options) {
		o.ImageGetter = images
	}
}

// WithClickableTable attaches a clickable table created by factory to each table.
func WithClickableTable(factory ClickableTableFactory) Option {
	return func(o *Options) {
		o.ClickableTable = factory
	}
}

// WithTableDrawer attaches a table drawer created by factory to each table.
func WithTableDrawer(factory TableDrawerFactory) Option {
	return func(o *Options) {
		o.TableDrawer = factory
	}
}

// WithLinkClickHandler routes link clicks to handler instead of navigating to the link's URL.
func WithLinkClickHandler(handler LinkClickHandler) Option {
	return func(o *Options) {
		o.LinkClickHandler = handler
	}
}

// WithListIndent sets the indentation unit of lists. The value is rounded to the nearest integer; negative values
// select the default indentation.
func WithListIndent(indent float64) Option {
	return func(o *Options) {
		o.ListIndent = indent
	}
}

// WithTrimTrailingWhitespace controls whether trailing newlines are removed from the result.
func WithTrimTrailingWhitespace(on bool) Option {
	return func(o *Options) {
		o.TrimTrailingWhitespace = on
	}
}

// WithMaxBuffer limits the number of bytes the tokenizer may buffer for a single token.
func WithMaxBuffer(n int) Option {
	return func(o *Options) {
		o.MaxBuffer = n
	}
}

// WithLogger sets the logger used during formatting.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

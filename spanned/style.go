package spanned

import (
	"context"
	"image"
	"image/color"
	"io"

	"github.com/skratchdot/open-golang/open"
)

// Kind identifies the type of a Style.
type Kind int

const (
	KindLink Kind = iota
	KindTypeface
	KindStrikethrough
	KindAlignment
	KindBullet
	KindNumber
	KindLeadingMargin
	KindTableDraw
	KindTableClick
	KindBold
	KindItalic
	KindUnderline
	KindRelativeSize
	KindHeading
	KindForeground
	KindSuperscript
	KindSubscript
	KindQuote
	KindImage
)

var kindNames = [...]string{
	KindLink:          "link",
	KindTypeface:      "typeface",
	KindStrikethrough: "strikethrough",
	KindAlignment:     "alignment",
	KindBullet:        "bullet",
	KindNumber:        "number",
	KindLeadingMargin: "leading-margin",
	KindTableDraw:     "table-draw",
	KindTableClick:    "table-click",
	KindBold:          "bold",
	KindItalic:        "italic",
	KindUnderline:     "underline",
	KindRelativeSize:  "relative-size",
	KindHeading:       "heading",
	KindForeground:    "foreground",
	KindSuperscript:   "superscript",
	KindSubscript:     "subscript",
	KindQuote:         "quote",
	KindImage:         "image",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsParagraph returns true if styles of this kind apply to whole lines rather than to runs of characters.
func (k Kind) IsParagraph() bool {
	switch k {
	case KindAlignment, KindBullet, KindNumber, KindLeadingMargin, KindQuote:
		return true
	default:
		return false
	}
}

// A Style is a styling directive attached to a range of text.
type Style interface {
	Kind() Kind
}

// Navigate opens a URL using the platform's default handler. It is used by Link.Click when no click handler is set.
var Navigate = func(url string) error {
	return open.Run(url)
}

// Link marks a clickable hyperlink.
type Link struct {
	// The link destination. Empty if the anchor had no href.
	URL string
	// OnClick, if set, is called instead of the default navigation when the link is clicked.
	OnClick func(ctx context.Context, url string) error
}

func (*Link) Kind() Kind { return KindLink }

// Click dispatches a click on the link.
func (l *Link) Click(ctx context.Context) error {
	if l.OnClick != nil {
		return l.OnClick(ctx, l.URL)
	}
	if l.URL == "" {
		return nil
	}
	return Navigate(l.URL)
}

// Monospace is the family name used for code.
const Monospace = "monospace"

// Typeface selects a font family.
type Typeface struct {
	Family string
}

func (Typeface) Kind() Kind { return KindTypeface }

// Strikethrough draws a line through text.
type Strikethrough struct{}

func (Strikethrough) Kind() Kind { return KindStrikethrough }

// Align is a paragraph alignment.
type Align int

const (
	AlignNormal Align = iota
	AlignCenter
	AlignOpposite
)

// Alignment aligns the lines of a paragraph. The range of an Alignment always ends with a newline.
type Alignment struct {
	Align Align
}

func (Alignment) Kind() Kind { return KindAlignment }

// BulletRadius is the radius of the dot drawn by a Bullet.
const BulletRadius = 3

// Bullet draws a bullet before the first line of a list item. Gap is the distance between the bullet and the text.
type Bullet struct {
	Gap int
}

func (Bullet) Kind() Kind { return KindBullet }

// LeadingMargin returns the width consumed by the bullet.
func (b Bullet) LeadingMargin() int {
	return 2*BulletRadius + b.Gap
}

// Number draws an item number before the first line of a list item.
type Number struct {
	Gap    int
	Number int
}

func (Number) Kind() Kind { return KindNumber }

// LeadingMargin returns the width consumed by the number. The width of the number's text depends on the font and is
// only known when drawing, so only the gap is counted.
func (n Number) LeadingMargin() int {
	return n.Gap
}

// LeadingMargin indents every line of a paragraph.
type LeadingMargin struct {
	Width int
}

func (LeadingMargin) Kind() Kind { return KindLeadingMargin }

// A TableHandler receives the raw markup of a table.
type TableHandler interface {
	SetTableHTML(html string)
}

// A TableDrawer renders a table in place of its placeholder text.
type TableDrawer interface {
	TableHandler
	Draw(w io.Writer, width int) error
}

// A ClickableTable reacts to clicks on a table.
type ClickableTable interface {
	TableHandler
	OnClick(ctx context.Context) error
}

// TableDraw attaches a TableDrawer to the placeholder text of a table.
type TableDraw struct {
	Drawer TableDrawer
}

func (TableDraw) Kind() Kind { return KindTableDraw }

// TableClick attaches a ClickableTable to the placeholder text of a table.
type TableClick struct {
	Table ClickableTable
}

func (TableClick) Kind() Kind { return KindTableClick }

// Bold text.
type Bold struct{}

func (Bold) Kind() Kind { return KindBold }

// Italic text.
type Italic struct{}

func (Italic) Kind() Kind { return KindItalic }

// Underline text.
type Underline struct{}

func (Underline) Kind() Kind { return KindUnderline }

// RelativeSize scales the font size.
type RelativeSize struct {
	Proportion float64
}

func (RelativeSize) Kind() Kind { return KindRelativeSize }

// Heading marks the text of an h1..h6 element.
type Heading struct {
	Level int
}

func (Heading) Kind() Kind { return KindHeading }

// Foreground sets the text color.
type Foreground struct {
	Color color.Color
}

func (Foreground) Kind() Kind { return KindForeground }

// Superscript text.
type Superscript struct{}

func (Superscript) Kind() Kind { return KindSuperscript }

// Subscript text.
type Subscript struct{}

func (Subscript) Kind() Kind { return KindSubscript }

// Quote marks a block quotation.
type Quote struct{}

func (Quote) Kind() Kind { return KindQuote }

// A Drawable is a decoded image and the bounds at which it should be drawn.
type Drawable struct {
	Image  image.Image
	Bounds image.Rectangle
}

// Image replaces its text (a single U+FFFC) with an image.
type Image struct {
	Source   string
	Alt      string
	Drawable *Drawable
}

func (*Image) Kind() Kind { return KindImage }

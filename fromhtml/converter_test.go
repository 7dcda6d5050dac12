package fromhtml

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

func convert(t *testing.T, input string, options ...Option) *spanned.Text {
	var buf spanned.Buffer
	c := NewConverter(&buf, options...)
	require.NoError(t, sax.Parse(strings.NewReader(input), c))
	return buf.Text()
}

func kinds(text *spanned.Text) []spanned.Kind {
	var ks []spanned.Kind
	for _, s := range text.Spans() {
		ks = append(ks, s.Style.Kind())
	}
	return ks
}

func TestWhitespaceCollapsing(t *testing.T) {
	text := convert(t, "  hello \n\t  world  <b> bold </b> end")
	assert.Equal(t, "hello world bold end", text.String())
}

func TestInlineStyles(t *testing.T) {
	text := convert(t, `<b>bold</b> <i>italic</i> <u>under</u> <tt>mono</tt> <sup>up</sup><sub>down</sub>`)
	assert.Equal(t, "bold italic under mono updown", text.String())
	assert.Equal(t, []spanned.Kind{
		spanned.KindBold,
		spanned.KindItalic,
		spanned.KindUnderline,
		spanned.KindTypeface,
		spanned.KindSuperscript,
		spanned.KindSubscript,
	}, kinds(text))

	bold := text.Spans()[0]
	assert.Equal(t, 0, bold.Start)
	assert.Equal(t, 4, bold.End)
}

func TestBlocks(t *testing.T) {
	text := convert(t, `<p>one</p><p>two<br>three</p><h2>Title</h2>tail`)
	assert.Equal(t, "one\n\ntwo\nthree\n\nTitle\n\ntail", text.String())

	headings := text.SpansOf(spanned.KindHeading)
	require.Len(t, headings, 1)
	assert.Equal(t, 2, headings[0].Style.(spanned.Heading).Level)
	assert.Equal(t, "Title", text.String()[headings[0].Start:headings[0].End])
}

func TestSkippedElements(t *testing.T) {
	text := convert(t, `<head><title>T</title><style>p { color: red }</style></head>body`)
	assert.Equal(t, "body", text.String())
}

func TestFontColor(t *testing.T) {
	text := convert(t, `<font color="#ff0000" face="serif">red</font><span style="color: blue; text-decoration: line-through">x</span>`)
	assert.Equal(t, "redx", text.String())
	assert.Equal(t, []spanned.Kind{
		spanned.KindForeground,
		spanned.KindTypeface,
		spanned.KindForeground,
		spanned.KindStrikethrough,
	}, kinds(text))
}

func TestImages(t *testing.T) {
	getter := ImageGetterFunc(func(source string) *spanned.Drawable {
		if source != "logo" {
			return nil
		}
		img := image.NewRGBA(image.Rect(0, 0, 4, 2))
		return &spanned.Drawable{Image: img, Bounds: img.Bounds()}
	})

	text := convert(t, `a<img src="logo" alt="Logo">b<img src="missing">`, WithImageGetter(getter))
	assert.Equal(t, "a"+ObjectReplacement+"b"+ObjectReplacement, text.String())

	images := text.SpansOf(spanned.KindImage)
	require.Len(t, images, 2)

	found := images[0].Style.(*spanned.Image)
	assert.Equal(t, "logo", found.Source)
	assert.Equal(t, "Logo", found.Alt)
	require.NotNil(t, found.Drawable)
	assert.Equal(t, 4, found.Drawable.Bounds.Dx())

	missing := images[1].Style.(*spanned.Image)
	assert.Nil(t, missing.Drawable)
}

func TestUnmatchedEndIsIgnored(t *testing.T) {
	text := convert(t, `a</b>b<i>c`)
	assert.Equal(t, "abc", text.String())
	assert.Empty(t, text.Spans())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#0f8")
	require.True(t, ok)
	assert.Equal(t, uint8(0x00), c.R)
	assert.Equal(t, uint8(0xff), c.G)
	assert.Equal(t, uint8(0x88), c.B)

	c, ok = ParseColor(" Navy ")
	require.True(t, ok)
	assert.Equal(t, uint8(0x80), c.B)

	_, ok = ParseColor("#12345")
	assert.False(t, ok)
	_, ok = ParseColor("chartreuse-ish")
	assert.False(t, ok)
}

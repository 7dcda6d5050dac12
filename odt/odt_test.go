package odt

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmishra4444/html-textview/spanned"
)

func readDocument(t *testing.T, data []byte) map[string]string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.NotEmpty(t, zr.File)

	assert.Equal(t, "mimetype", zr.File[0].Name)
	assert.Equal(t, zip.Store, zr.File[0].Method)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(b)
	}
	return files
}

func requireWellFormed(t *testing.T, doc string) {
	d := xml.NewDecoder(bytes.NewReader([]byte(doc)))
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestFromHTML(t *testing.T) {
	const input = `<h1>Title</h1><p>Hello <b>bold</b> <a href="https://x.y/?a=1&amp;b=2">link</a></p>` +
		`<ul><li>one</li></ul><table><tr><th>H</th></tr><tr><td>c</td></tr></table>`

	var buf bytes.Buffer
	require.NoError(t, FromHTML(&buf, input))

	files := readDocument(t, buf.Bytes())
	assert.Equal(t, "application/vnd.oasis.opendocument.text", files["mimetype"])
	assert.Contains(t, files["META-INF/manifest.xml"], `manifest:full-path="content.xml"`)

	content := files["content.xml"]
	requireWellFormed(t, content)

	assert.Contains(t, content, `<text:h text:outline-level="1" text:style-name="Paragraph">`)
	assert.Contains(t, content, `Title</text:span></text:h>`)
	assert.Contains(t, content, `Hello <text:span text:style-name="T2">bold</text:span>`)
	assert.Contains(t, content, `<text:a xlink:type="simple" xlink:href="https://x.y/?a=1&amp;b=2">link</text:a>`)
	assert.Contains(t, content, `•<text:tab/>one</text:p>`)
	assert.Contains(t, content, `fo:margin-left="12pt"`)

	assert.Contains(t, content, `<table:table table:name="Table1">`)
	assert.Contains(t, content, `table:number-columns-repeated="1"`)
	assert.Contains(t, content, `<text:p text:style-name="Table Heading">H</text:p>`)
	assert.Contains(t, content, `<text:p text:style-name="Table Contents">c</text:p>`)
	assert.NotContains(t, content, "table placeholder")
}

func TestFromTextImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.RGBA{B: 0xff, A: 0xff})

	text := spanned.NewText("a\uFFFC\uFFFC",
		spanned.Span{Start: 1, End: 4, Style: &spanned.Image{Source: "x.png", Alt: "x", Drawable: &spanned.Drawable{Image: img, Bounds: img.Bounds()}}},
		spanned.Span{Start: 4, End: 7, Style: &spanned.Image{Source: "missing.png", Alt: "gone"}},
	)

	var buf bytes.Buffer
	require.NoError(t, FromText(&buf, text))

	files := readDocument(t, buf.Bytes())
	requireWellFormed(t, files["content.xml"])

	assert.Contains(t, files, "Pictures/image1.png")
	assert.NotContains(t, files, "Pictures/image2.png")
	assert.Contains(t, files["META-INF/manifest.xml"], `manifest:full-path="Pictures/image1.png"`)
	assert.Contains(t, files["content.xml"], `svg:width="2px" svg:height="3px"`)
	assert.Contains(t, files["content.xml"], `<svg:title>x</svg:title>`)
	assert.Contains(t, files["content.xml"], `[image: gone]`)

	decoded, err := pngDecode(files["Pictures/image1.png"])
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestFontFamilies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FromHTML(&buf, "<p>x</p>", WithProportionalFamily("Noto Serif"), WithMonospaceFamily("Iosevka")))

	content := readDocument(t, buf.Bytes())["content.xml"]
	requireWellFormed(t, content)
	assert.Contains(t, content, `svg:font-family="Noto Serif"`)
	assert.Contains(t, content, `svg:font-family="Iosevka"`)
}

func TestEscapeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, escapeText(&buf, `a<b>&"c"  d`, true))
	assert.Equal(t, `a&lt;b&gt;&amp;&#34;c&#34; <text:s/>d`, buf.String())

	buf.Reset()
	require.NoError(t, escapeText(&buf, "x\ty\n", false))
	assert.Equal(t, "x&#x9;y&#xA;", buf.String())
}

func pngDecode(data string) (image.Image, error) {
	return png.Decode(bytes.NewReader([]byte(data)))
}

package odt

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/spanned"
)

const (
	defaultProportionalFamily = "'Liberation Serif', 'Times New Roman', serif"
	defaultMonospaceFamily    = "'Liberation Mono', Consolas, monospace"
)

// paragraphStyle is the paragraph-level formatting of a line.
type paragraphStyle struct {
	quotes int
	margin int
	center bool
}

// textStyle is the character-level formatting of a run of text.
type textStyle struct {
	bold        bool
	italic      bool
	underline   bool
	strike      bool
	monospace   bool
	superscript bool
	subscript   bool
	color       string
	size        float64
}

// A Picture is an image embedded in a document.
type Picture struct {
	Path string
	Data []byte
}

// Renderer writes the content of an OpenDocument text document.
type Renderer struct {
	proportionalFamily string
	monospaceFamily    string

	text  *spanned.Text
	spans []spanned.Span

	paragraphStyles map[paragraphStyle]string
	paragraphOrder  []paragraphStyle
	textStyles      map[textStyle]string
	textOrder       []textStyle
	pictures        []Picture
	tables          int
}

func NewRenderer(proportionalFamily, monospaceFamily string) *Renderer {
	if proportionalFamily == "" {
		proportionalFamily = defaultProportionalFamily
	}
	if monospaceFamily == "" {
		monospaceFamily = defaultMonospaceFamily
	}
	return &Renderer{
		proportionalFamily: proportionalFamily,
		monospaceFamily:    monospaceFamily,
	}
}

// Pictures returns the images embedded by the last call to Render.
func (r *Renderer) Pictures() []Picture {
	return r.pictures
}

const prolog = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content  xmlns:css3t="http://www.w3.org/TR/css3-text/" xmlns:grddl="http://www.w3.org/2003/g/data-view#" xmlns:xhtml="http://www.w3.org/1999/xhtml" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xforms="http://www.w3.org/2002/xforms" xmlns:dom="http://www.w3.org/2001/xml-events" xmlns:script="urn:oasis:names:tc:opendocument:xmlns:script:1.0" xmlns:form="urn:oasis:names:tc:opendocument:xmlns:form:1.0" xmlns:math="http://www.w3.org/1998/Math/MathML" xmlns:number="urn:oasis:names:tc:opendocument:xmlns:datastyle:1.0" xmlns:field="urn:openoffice:names:experimental:ooo-ms-interop:xmlns:field:1.0" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" xmlns:loext="urn:org:documentfoundation:names:experimental:office:xmlns:loext:1.0" xmlns:officeooo="http://openoffice.org/2009/office" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:chart="urn:oasis:names:tc:opendocument:xmlns:chart:1.0" xmlns:tableooo="http://openoffice.org/2009/table" xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0" xmlns:rpt="http://openoffice.org/2005/report" xmlns:dr3d="urn:oasis:names:tc:opendocument:xmlns:dr3d:1.0" xmlns:of="urn:oasis:names:tc:opendocument:xmlns:of:1.2" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:calcext="urn:org:documentfoundation:names:experimental:calc:xmlns:calcext:1.0" xmlns:oooc="http://openoffice.org/2004/calc" xmlns:drawooo="http://openoffice.org/2010/draw" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:ooo="http://openoffice.org/2004/office" xmlns:ooow="http://openoffice.org/2004/writer" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" xmlns:formx="urn:openoffice:names:experimental:ooxml-odf-interop:xmlns:form:1.0" xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0" xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" office:version="1.3">
	<office:font-face-decls>
		<style:font-face style:name="Proportional" svg:font-family="%s" style:font-family-generic="roman" style:font-pitch="variable"/>
		<style:font-face style:name="Monospace" svg:font-family="%s" style:font-family-generic="modern" style:font-pitch="fixed"/>
	</office:font-face-decls>

	<office:automatic-styles>
		<!-- Paragraph -->
		<style:style style:family="paragraph" style:name="Paragraph">
			<style:paragraph-properties fo:margin-top="4.5pt" fo:margin-bottom="4.5pt"/>
			<style:text-properties style:font-name="Proportional"/>
		</style:style>

		<!-- Table cells -->
		<style:style style:family="paragraph" style:name="Table Contents" style:parent-style-name="Paragraph">
		</style:style>
		<style:style style:family="paragraph" style:name="Table Heading" style:parent-style-name="Paragraph">
			<style:text-properties fo:font-weight="bold"/>
		</style:style>
		<style:style style:family="table-cell" style:name="Table Cell">
			<style:table-cell-properties fo:padding="0.04in" fo:border="0.5pt solid #808080"/>
		</style:style>
`

const epilog = `		</office:text>
	</office:body>
</office:document-content>
`

func (r *Renderer) reset(text *spanned.Text) {
	r.text, r.spans = text, text.Spans()
	r.paragraphStyles, r.paragraphOrder = map[paragraphStyle]string{}, nil
	r.textStyles, r.textOrder = map[textStyle]string{}, nil
	r.pictures, r.tables = nil, 0
}

// Render writes the content.xml of a document holding text to w. Each non-empty line of the text becomes a paragraph.
func (r *Renderer) Render(w io.Writer, text *spanned.Text) error {
	r.reset(text)

	var body bytes.Buffer
	source := text.String()
	for start := 0; start < len(source); {
		end := strings.IndexByte(source[start:], '\n')
		if end == -1 {
			end = len(source)
		} else {
			end += start
		}
		if err := r.renderLine(&body, start, end); err != nil {
			return err
		}
		start = end + 1
	}

	var doc bytes.Buffer
	fmt.Fprintf(&doc, prolog, r.fontFamily(r.proportionalFamily), r.fontFamily(r.monospaceFamily))
	r.writeAutomaticStyles(&doc)
	doc.WriteString("\t</office:automatic-styles>\n\n\t<office:body>\n\t\t<office:text>\n")
	doc.Write(body.Bytes())
	doc.WriteString(epilog)

	_, err := w.Write(doc.Bytes())
	return err
}

func (r *Renderer) fontFamily(family string) string {
	var sb strings.Builder
	_ = escapeText(&sb, family, false)
	return sb.String()
}

// block is the paragraph-level layout of a line.
type block struct {
	style   paragraphStyle
	heading int
	marker  string
}

func (r *Renderer) blockAt(offset int) block {
	var b block
	for _, s := range r.text.SpansAt(offset) {
		switch style := s.Style.(type) {
		case spanned.Quote:
			b.style.quotes++
		case spanned.LeadingMargin:
			b.style.margin += style.Width
		case spanned.Bullet:
			b.style.margin += style.LeadingMargin()
			if s.Start == offset {
				b.marker = "•"
			}
		case spanned.Number:
			b.style.margin += style.LeadingMargin()
			if s.Start == offset {
				b.marker = strconv.Itoa(style.Number) + "."
			}
		case spanned.Alignment:
			b.style.center = style.Align == spanned.AlignCenter
		case spanned.Heading:
			b.heading = style.Level
		}
	}
	b.style.margin = max(0, b.style.margin)
	return b
}

func (r *Renderer) paragraphStyleName(style paragraphStyle) string {
	if style == (paragraphStyle{}) {
		return "Paragraph"
	}
	name, ok := r.paragraphStyles[style]
	if !ok {
		name = fmt.Sprintf("P%d", len(r.paragraphOrder)+1)
		r.paragraphStyles[style] = name
		r.paragraphOrder = append(r.paragraphOrder, style)
	}
	return name
}

func (r *Renderer) textStyleName(style textStyle) string {
	name, ok := r.textStyles[style]
	if !ok {
		name = fmt.Sprintf("T%d", len(r.textOrder)+1)
		r.textStyles[style] = name
		r.textOrder = append(r.textOrder, style)
	}
	return name
}

func (r *Renderer) writeAutomaticStyles(w *bytes.Buffer) {
	for _, style := range r.paragraphOrder {
		fmt.Fprintf(w, "\t\t<style:style style:family=\"paragraph\" style:name=\"%s\" style:parent-style-name=\"Paragraph\">\n", r.paragraphStyles[style])
		w.WriteString("\t\t\t<style:paragraph-properties")
		// Margins are in pixels at 96 DPI. Each level of quotation adds a quarter inch.
		margin := float64(style.margin)*0.75 + float64(style.quotes)*18
		if margin > 0 {
			fmt.Fprintf(w, " fo:margin-left=\"%gpt\"", margin)
		}
		if style.quotes > 0 {
			w.WriteString(" fo:border-left=\"1.5pt solid #c0c0c0\" fo:padding-left=\"6pt\"")
		}
		if style.center {
			w.WriteString(" fo:text-align=\"center\"")
		}
		w.WriteString("/>\n\t\t</style:style>\n")
	}

	for _, style := range r.textOrder {
		fmt.Fprintf(w, "\t\t<style:style style:family=\"text\" style:name=\"%s\">\n", r.textStyles[style])
		w.WriteString("\t\t\t<style:text-properties")
		if style.bold {
			w.WriteString(" fo:font-weight=\"bold\"")
		}
		if style.italic {
			w.WriteString(" fo:font-style=\"italic\"")
		}
		if style.underline {
			w.WriteString(" style:text-underline-style=\"solid\" style:text-underline-width=\"auto\" style:text-underline-color=\"font-color\"")
		}
		if style.strike {
			w.WriteString(" style:text-line-through-style=\"solid\"")
		}
		if style.monospace {
			w.WriteString(" style:font-name=\"Monospace\"")
		}
		switch {
		case style.superscript:
			w.WriteString(" style:text-position=\"super 58%\"")
		case style.subscript:
			w.WriteString(" style:text-position=\"sub 58%\"")
		}
		if style.color != "" {
			fmt.Fprintf(w, " fo:color=\"%s\"", style.color)
		}
		if style.size != 0 {
			fmt.Fprintf(w, " fo:font-size=\"%d%%\"", int(style.size*100+0.5))
		}
		w.WriteString("/>\n\t\t</style:style>\n")
	}
}

func hexColor(c color.Color) string {
	red, green, blue, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", red>>8, green>>8, blue>>8)
}

func textStyleOf(spans []spanned.Span) textStyle {
	var style textStyle
	for _, s := range spans {
		switch st := s.Style.(type) {
		case spanned.Bold:
			style.bold = true
		case spanned.Italic:
			style.italic = true
		case spanned.Underline:
			style.underline = true
		case spanned.Strikethrough:
			style.strike = true
		case spanned.Typeface:
			style.monospace = st.Family == spanned.Monospace
		case spanned.Superscript:
			style.superscript, style.subscript = true, false
		case spanned.Subscript:
			style.superscript, style.subscript = false, true
		case spanned.Foreground:
			style.color = hexColor(st.Color)
		case spanned.RelativeSize:
			if style.size == 0 {
				style.size = 1
			}
			style.size *= st.Proportion
		}
	}
	return style
}

// A segment is a run of text covered by the same set of spans.
type segment struct {
	start, end int
	spans      []spanned.Span
}

func (r *Renderer) segments(start, end int) []segment {
	var covering []spanned.Span
	bounds := []int{start, end}
	for _, s := range r.spans {
		if s.Start >= end {
			break
		}
		if s.End <= start || s.Style.Kind().IsParagraph() || s.Style.Kind() == spanned.KindHeading {
			continue
		}
		covering = append(covering, s)
		bounds = append(bounds, max(s.Start, start), min(s.End, end))
	}
	sort.Ints(bounds)

	var segments []segment
	for i := 1; i < len(bounds); i++ {
		a, b := bounds[i-1], bounds[i]
		if a == b {
			continue
		}
		seg := segment{start: a, end: b}
		for _, s := range covering {
			if s.Start <= a && b <= s.End {
				seg.spans = append(seg.spans, s)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// paragraph tracks the open paragraph element of a line. A table splits a line into multiple paragraphs.
type paragraph struct {
	block  block
	open   bool
	marker bool
}

func (r *Renderer) openParagraph(w *bytes.Buffer, p *paragraph) error {
	if p.open {
		return nil
	}
	p.open = true

	style := r.paragraphStyleName(p.block.style)
	if p.block.heading > 0 {
		fmt.Fprintf(w, "\t\t\t<text:h text:outline-level=\"%d\" text:style-name=\"%s\">", p.block.heading, style)
	} else {
		fmt.Fprintf(w, "\t\t\t<text:p text:style-name=\"%s\">", style)
	}
	if p.block.marker != "" && !p.marker {
		p.marker = true
		if err := escapeText(w, p.block.marker, false); err != nil {
			return err
		}
		w.WriteString("<text:tab/>")
	}
	return nil
}

func (r *Renderer) closeParagraph(w *bytes.Buffer, p *paragraph) {
	if !p.open {
		return
	}
	p.open = false
	if p.block.heading > 0 {
		w.WriteString("</text:h>\n")
	} else {
		w.WriteString("</text:p>\n")
	}
}

func (r *Renderer) renderLine(w *bytes.Buffer, start, end int) error {
	if start == end {
		return nil
	}

	p := &paragraph{block: r.blockAt(start)}
	for _, seg := range r.segments(start, end) {
		if err := r.renderSegment(w, p, seg); err != nil {
			return err
		}
	}
	r.closeParagraph(w, p)
	return nil
}

func (r *Renderer) renderSegment(w *bytes.Buffer, p *paragraph, seg segment) error {
	var link *spanned.Link
	for _, s := range seg.spans {
		switch style := s.Style.(type) {
		case spanned.TableDraw:
			if s.Start == seg.start {
				r.closeParagraph(w, p)
				return r.renderTable(w, style.Drawer, r.text.String()[s.Start:s.End])
			}
			return nil
		case *spanned.Image:
			if s.Start == seg.start {
				if err := r.openParagraph(w, p); err != nil {
					return err
				}
				return r.renderImage(w, style, seg)
			}
			return nil
		case *spanned.Link:
			link = style
		}
	}

	if err := r.openParagraph(w, p); err != nil {
		return err
	}
	if link != nil && link.URL != "" {
		w.WriteString("<text:a xlink:type=\"simple\" xlink:href=\"")
		if err := escapeText(w, link.URL, false); err != nil {
			return err
		}
		w.WriteString("\">")
	}
	if err := r.renderText(w, seg, r.text.String()[seg.start:seg.end]); err != nil {
		return err
	}
	if link != nil && link.URL != "" {
		w.WriteString("</text:a>")
	}
	return nil
}

func (r *Renderer) renderText(w *bytes.Buffer, seg segment, text string) error {
	style := textStyleOf(seg.spans)
	if style == (textStyle{}) {
		return escapeText(w, text, true)
	}

	fmt.Fprintf(w, "<text:span text:style-name=\"%s\">", r.textStyleName(style))
	if err := escapeText(w, text, true); err != nil {
		return err
	}
	w.WriteString("</text:span>")
	return nil
}

func (r *Renderer) renderImage(w *bytes.Buffer, img *spanned.Image, seg segment) error {
	if img.Drawable == nil {
		text := "[image]"
		if img.Alt != "" {
			text = "[image: " + img.Alt + "]"
		}
		return r.renderText(w, seg, text)
	}

	var data bytes.Buffer
	if err := png.Encode(&data, img.Drawable.Image); err != nil {
		return fmt.Errorf("encoding image %q: %w", img.Source, err)
	}
	picture := Picture{
		Path: fmt.Sprintf("Pictures/image%d.png", len(r.pictures)+1),
		Data: data.Bytes(),
	}
	r.pictures = append(r.pictures, picture)

	bounds := img.Drawable.Bounds
	if bounds.Empty() {
		bounds = img.Drawable.Image.Bounds()
	}
	fmt.Fprintf(w, "<draw:frame draw:name=\"Image%d\" text:anchor-type=\"as-char\" svg:width=\"%dpx\" svg:height=\"%dpx\">", len(r.pictures), bounds.Dx(), bounds.Dy())
	fmt.Fprintf(w, "<draw:image xlink:href=\"%s\" xlink:type=\"simple\" xlink:show=\"embed\" xlink:actuate=\"onLoad\"/>", picture.Path)
	if img.Alt != "" {
		w.WriteString("<svg:title>")
		if err := escapeText(w, img.Alt, false); err != nil {
			return err
		}
		w.WriteString("</svg:title>")
	}
	w.WriteString("</draw:frame>")
	return nil
}

type htmlTable interface {
	HTML() string
}

// renderTable writes a table from the markup held by drawer. Tables whose drawer does not expose its markup are
// written as their placeholder text.
func (r *Renderer) renderTable(w *bytes.Buffer, drawer spanned.TableDrawer, placeholder string) error {
	source, ok := drawer.(htmlTable)
	if !ok {
		w.WriteString("\t\t\t<text:p text:style-name=\"Paragraph\">")
		if err := escapeText(w, placeholder, false); err != nil {
			return err
		}
		w.WriteString("</text:p>\n")
		return nil
	}

	table := renderer.ParseTable(source.HTML())
	columns := table.Columns()
	if columns == 0 {
		return nil
	}

	r.tables++
	fmt.Fprintf(w, "\t\t\t<table:table table:name=\"Table%d\">\n", r.tables)
	fmt.Fprintf(w, "\t\t\t\t<table:table-column table:number-columns-repeated=\"%d\"/>\n", columns)
	for _, row := range table.Rows {
		w.WriteString("\t\t\t\t<table:table-row>\n")
		for i := 0; i < columns; i++ {
			var cell renderer.Cell
			if i < len(row) {
				cell = row[i]
			}

			style := "Table Contents"
			if cell.Header {
				style = "Table Heading"
			}
			w.WriteString("\t\t\t\t\t<table:table-cell table:style-name=\"Table Cell\" office:value-type=\"string\">")
			if len(cell.Lines) == 0 {
				fmt.Fprintf(w, "<text:p text:style-name=\"%s\"/>", style)
			}
			for _, line := range cell.Lines {
				fmt.Fprintf(w, "<text:p text:style-name=\"%s\">", style)
				if err := escapeText(w, line, false); err != nil {
					return err
				}
				w.WriteString("</text:p>")
			}
			w.WriteString("</table:table-cell>\n")
		}
		w.WriteString("\t\t\t\t</table:table-row>\n")
	}
	w.WriteString("\t\t\t</table:table>\n")
	return nil
}

package renderer

import (
	"bytes"
	"image/color"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/eliukblau/pixterm/pkg/ansimage"
	"github.com/rivo/uniseg"

	"github.com/rohitmishra4444/html-textview/internal/kitty"
	"github.com/rohitmishra4444/html-textview/internal/logging"
	"github.com/rohitmishra4444/html-textview/spanned"
	"github.com/rohitmishra4444/html-textview/styles"
)

// PixelsPerColumn converts the pixel widths of margins and gaps into terminal columns.
const PixelsPerColumn = 4

const bullet = "•"

// An ImageMode selects how images are drawn.
type ImageMode int

const (
	// ImagesOff draws a text placeholder in place of each image.
	ImagesOff ImageMode = iota
	// ImagesKitty sends image data inline using the kitty graphics protocol.
	ImagesKitty
	// ImagesANSI draws images with colored half-block characters.
	ImagesANSI
)

// Renderer writes styled text to a terminal using ANSI escape sequences. Each source line is rendered as one or more
// output lines; the source offset at which each output line begins is available from LineStarts after rendering.
type Renderer struct {
	theme         *chroma.Style
	wordWrap      int
	hyperlinks    bool
	images        ImageMode
	maxImageWidth int
	logger        *log.Logger

	selectionStart int
	selectionEnd   int

	text       *spanned.Text
	spans      []spanned.Span
	state      sgrState
	lineStarts []int
}

// A RendererOption represents a configuration option for a Renderer.
type RendererOption func(r *Renderer)

// WithTheme sets the theme used for colorization during rendering. If the theme is nil, output will not be
// colorized.
func WithTheme(theme *chroma.Style) RendererOption {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithHyperlinks enables or disables hyperlink rendering. When hyperlink rendering is enabled, link text is wrapped in
// OSC 8 escape sequences that carry the link's URL. Hyperlink rendering is disabled by default.
func WithHyperlinks(on bool) RendererOption {
	return func(r *Renderer) {
		r.hyperlinks = on
	}
}

// WithWordWrap enables word wrapping at the desired width. A width of zero disables wrapping. The width is also used
// to center text and to size tables. Word wrapping is disabled by default.
func WithWordWrap(width int) RendererOption {
	return func(r *Renderer) {
		r.wordWrap = width
	}
}

// WithImages selects how images are drawn. maxWidth limits the width of an image in columns; zero selects the wrap
// width, or 40 columns if wrapping is disabled. Images without a drawable are always drawn as placeholders.
func WithImages(mode ImageMode, maxWidth int) RendererOption {
	return func(r *Renderer) {
		r.images = mode
		r.maxImageWidth = maxWidth
	}
}

// WithLogger sets the logger used to report drawing failures.
func WithLogger(logger *log.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// New creates a new Renderer with the given options.
func New(options ...RendererOption) *Renderer {
	r := Renderer{selectionStart: -1, selectionEnd: -1}
	for _, o := range options {
		o(&r)
	}
	if r.logger == nil {
		r.logger = logging.Default()
	}
	return &r
}

// Select highlights the text in [start, end) on subsequent renders. An empty range clears the selection.
func (r *Renderer) Select(start, end int) {
	if start >= end {
		start, end = -1, -1
	}
	r.selectionStart, r.selectionEnd = start, end
}

// LineStarts returns the source offset at which each output line of the last render begins.
func (r *Renderer) LineStarts() []int {
	return r.lineStarts
}

// LineOf returns the index of the output line of the last render that contains the given source offset.
func (r *Renderer) LineOf(offset int) int {
	i := sort.Search(len(r.lineStarts), func(i int) bool { return r.lineStarts[i] > offset })
	return max(0, i-1)
}

// Render writes text to w.
func (r *Renderer) Render(w io.Writer, text *spanned.Text) error {
	r.text, r.spans, r.state, r.lineStarts = text, text.Spans(), sgrState{}, nil

	source := text.String()
	for start := 0; start < len(source); {
		end := strings.IndexByte(source[start:], '\n')
		if end == -1 {
			end = len(source)
		} else {
			end += start
		}
		if err := r.renderLine(w, start, end); err != nil {
			return err
		}
		start = end + 1
	}
	return r.setState(w, sgrState{})
}

func (r *Renderer) setState(w io.Writer, state sgrState) error {
	if err := writeTransition(w, r.state, state); err != nil {
		return err
	}
	r.state = state
	return nil
}

// block describes the paragraph-level layout of a source line.
type block struct {
	quotes int
	indent int
	marker string
	center bool
}

func (r *Renderer) blockAt(offset int) block {
	var b block
	for _, s := range r.text.SpansAt(offset) {
		switch style := s.Style.(type) {
		case spanned.Quote:
			b.quotes++
		case spanned.LeadingMargin:
			b.indent += style.Width
		case spanned.Bullet:
			b.indent += style.LeadingMargin()
			if s.Start == offset {
				b.marker = bullet
			}
		case spanned.Number:
			b.indent += style.LeadingMargin()
			if s.Start == offset {
				b.marker = strconv.Itoa(style.Number) + "."
			}
		case spanned.Alignment:
			b.center = style.Align == spanned.AlignCenter
		}
	}
	return b
}

// prefixes returns the lead of the first output line of a paragraph and the lead of the rest, not counting quote
// bars.
func (b block) prefixes() (first, rest string) {
	columns := max(0, b.indent/PixelsPerColumn)
	if b.marker == "" {
		lead := strings.Repeat(" ", columns)
		return lead, lead
	}

	pad := max(0, columns-uniseg.StringWidth(b.marker)-1)
	first = strings.Repeat(" ", pad) + b.marker + " "
	return first, strings.Repeat(" ", uniseg.StringWidth(first))
}

// line tracks the output of a single source line.
type line struct {
	block block
	lead  string
	rest  string

	column   int
	fresh    bool
	needLine bool
	noWrap   bool
}

func (r *Renderer) writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// writePrefix writes the quote bars and lead of an output line.
func (r *Renderer) writePrefix(w io.Writer, l *line, lead string, marker bool) error {
	l.column = 2*l.block.quotes + uniseg.StringWidth(lead)
	l.fresh = true

	if l.block.quotes > 0 {
		if err := r.setState(w, r.styleOfToken(styles.Quote)); err != nil {
			return err
		}
		if err := r.writeString(w, strings.Repeat("│ ", l.block.quotes)); err != nil {
			return err
		}
	}
	if marker && l.block.marker != "" {
		i := strings.Index(lead, l.block.marker)
		if err := r.setState(w, r.styleOfToken(chroma.Generic)); err != nil {
			return err
		}
		if err := r.writeString(w, lead[:i]); err != nil {
			return err
		}
		if err := r.setState(w, r.styleOfToken(styles.Bullet)); err != nil {
			return err
		}
		if err := r.writeString(w, l.block.marker); err != nil {
			return err
		}
		lead = lead[i+len(l.block.marker):]
	}
	if err := r.setState(w, r.styleOfToken(chroma.Generic)); err != nil {
		return err
	}
	return r.writeString(w, lead)
}

func (r *Renderer) styleOfToken(token chroma.TokenType) sgrState {
	if r.theme == nil {
		return sgrState{}
	}
	return sgrState{entry: overlay(r.theme, overlay(r.theme, chroma.StyleEntry{}, chroma.Generic), token)}
}

// newline ends the current output line and begins the next one at the given source offset.
func (r *Renderer) newline(w io.Writer, l *line, offset int) error {
	if err := r.setState(w, sgrState{}); err != nil {
		return err
	}
	if err := r.writeString(w, "\n"); err != nil {
		return err
	}
	l.needLine = true
	return r.ensureLine(w, l, offset)
}

// ensureLine begins a new output line if the previous one has been terminated.
func (r *Renderer) ensureLine(w io.Writer, l *line, offset int) error {
	if !l.needLine {
		return nil
	}
	l.needLine = false
	r.lineStarts = append(r.lineStarts, offset)
	return r.writePrefix(w, l, l.rest, false)
}

func (r *Renderer) renderLine(w io.Writer, start, end int) error {
	r.lineStarts = append(r.lineStarts, start)
	if start == end {
		if err := r.setState(w, sgrState{}); err != nil {
			return err
		}
		return r.writeString(w, "\n")
	}

	l := &line{block: r.blockAt(start)}
	l.lead, l.rest = l.block.prefixes()
	l.noWrap = l.block.center
	if err := r.writePrefix(w, l, l.lead, true); err != nil {
		return err
	}

	if l.block.center && r.wordWrap > 0 {
		width := uniseg.StringWidth(strings.ReplaceAll(r.text.String()[start:end], "\uFFFC", ""))
		if pad := (r.wordWrap - l.column - width) / 2; pad > 0 {
			if err := r.writeString(w, strings.Repeat(" ", pad)); err != nil {
				return err
			}
			l.column += pad
		}
	}

	for _, seg := range r.segments(start, end) {
		if err := r.renderSegment(w, l, seg); err != nil {
			return err
		}
	}

	if l.needLine {
		// The line ended with a table or an image, which terminate their own output.
		return nil
	}
	if err := r.setState(w, sgrState{}); err != nil {
		return err
	}
	return r.writeString(w, "\n")
}

// A segment is a run of text covered by the same set of spans.
type segment struct {
	start, end int
	spans      []spanned.Span
	selected   bool
}

func (r *Renderer) segments(start, end int) []segment {
	var covering []spanned.Span
	bounds := []int{start, end}
	for _, s := range r.spans {
		if s.Start >= end {
			break
		}
		if s.End <= start || s.Style.Kind().IsParagraph() && s.Style.Kind() != spanned.KindQuote {
			continue
		}
		covering = append(covering, s)
		bounds = append(bounds, max(s.Start, start), min(s.End, end))
	}
	if r.selectionStart >= 0 {
		bounds = append(bounds, min(max(r.selectionStart, start), end), min(max(r.selectionEnd, start), end))
	}
	sort.Ints(bounds)

	var segments []segment
	for i := 1; i < len(bounds); i++ {
		a, b := bounds[i-1], bounds[i]
		if a == b {
			continue
		}
		seg := segment{
			start:    a,
			end:      b,
			selected: r.selectionStart <= a && b <= r.selectionEnd,
		}
		for _, s := range covering {
			if s.Start <= a && b <= s.End {
				seg.spans = append(seg.spans, s)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

func (r *Renderer) renderSegment(w io.Writer, l *line, seg segment) error {
	var link *spanned.Link
	for _, s := range seg.spans {
		switch style := s.Style.(type) {
		case spanned.TableDraw:
			if s.Start == seg.start {
				return r.renderTable(w, l, style.Drawer, s.Start)
			}
			return nil
		case *spanned.Image:
			if s.Start == seg.start {
				return r.renderImage(w, l, style, seg)
			}
			return nil
		case *spanned.Link:
			link = style
		}
	}

	if err := r.ensureLine(w, l, seg.start); err != nil {
		return err
	}

	state := r.styleOf(seg.spans)
	state.reverse = seg.selected
	if err := r.setState(w, state); err != nil {
		return err
	}

	hyperlink := r.hyperlinks && link != nil && link.URL != ""
	if hyperlink {
		if err := r.writeString(w, ansi.SetHyperlink(link.URL)); err != nil {
			return err
		}
	}
	if err := r.writeText(w, l, r.text.String()[seg.start:seg.end], seg.start, state); err != nil {
		return err
	}
	if hyperlink {
		return r.writeString(w, ansi.ResetHyperlink())
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// writeText writes text word by word, wrapping before any word that would cross the wrap width.
func (r *Renderer) writeText(w io.Writer, l *line, text string, offset int, state sgrState) error {
	for len(text) > 0 {
		n := 1
		space := isSpace(text[0])
		for n < len(text) && isSpace(text[n]) == space {
			n++
		}
		token := text[:n]
		width := uniseg.StringWidth(token)

		if r.wordWrap > 0 && !l.noWrap && !l.fresh && l.column+width > r.wordWrap {
			if err := r.newline(w, l, offset); err != nil {
				return err
			}
			if space {
				// Whitespace at a break is dropped.
				text, offset = text[n:], offset+n
				continue
			}
			if err := r.setState(w, state); err != nil {
				return err
			}
		}

		if err := r.writeString(w, token); err != nil {
			return err
		}
		l.column += width
		l.fresh = false
		text, offset = text[n:], offset+n
	}
	return nil
}

// lineWriter prefixes each line written through it with the continuation lead of a paragraph and records the start of
// each line. Whatever is written through a lineWriter must reset its attributes before each newline.
type lineWriter struct {
	r      *Renderer
	w      io.Writer
	l      *line
	offset int
}

func (lw *lineWriter) Write(b []byte) (int, error) {
	written := 0
	for len(b) > 0 {
		if err := lw.r.ensureLine(lw.w, lw.l, lw.offset); err != nil {
			return written, err
		}
		if err := lw.r.setState(lw.w, sgrState{}); err != nil {
			return written, err
		}

		chunk := b
		if i := bytes.IndexByte(b, '\n'); i != -1 {
			chunk = b[:i+1]
		}
		n, err := lw.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
		if chunk[len(chunk)-1] == '\n' {
			lw.l.needLine = true
		}
		b = b[len(chunk):]
	}
	return written, nil
}

// finish terminates the last line written through lw.
func (lw *lineWriter) finish() error {
	lw.r.state = sgrState{}
	if lw.l.needLine {
		return nil
	}
	lw.l.needLine = true
	return lw.r.writeString(lw.w, "\n")
}

// begin starts a drawing on a line of its own.
func (r *Renderer) begin(w io.Writer, l *line, offset int) error {
	if err := r.ensureLine(w, l, offset); err != nil {
		return err
	}
	if !l.fresh {
		if err := r.newline(w, l, offset); err != nil {
			return err
		}
	}
	return r.setState(w, sgrState{})
}

func (r *Renderer) renderTable(w io.Writer, l *line, drawer spanned.TableDrawer, offset int) error {
	if err := r.begin(w, l, offset); err != nil {
		return err
	}

	width := 0
	if r.wordWrap > 0 {
		width = max(1, r.wordWrap-l.column)
	}
	lw := &lineWriter{r: r, w: w, l: l, offset: offset}
	if err := drawer.Draw(lw, width); err != nil {
		return err
	}
	return lw.finish()
}

func (r *Renderer) imageColumns(l *line) int {
	columns := r.maxImageWidth
	if columns <= 0 {
		columns = 40
		if r.wordWrap > 0 {
			columns = r.wordWrap
		}
	}
	if r.wordWrap > 0 {
		columns = min(columns, r.wordWrap-l.column)
	}
	return max(1, columns)
}

func (r *Renderer) renderImage(w io.Writer, l *line, img *spanned.Image, seg segment) error {
	if img.Drawable == nil || r.images == ImagesOff {
		return r.renderImagePlaceholder(w, l, img, seg)
	}

	if err := r.begin(w, l, seg.start); err != nil {
		return err
	}

	columns := r.imageColumns(l)
	lw := &lineWriter{r: r, w: w, l: l, offset: seg.start}
	switch r.images {
	case ImagesKitty:
		if _, err := kitty.Encode(lw, img.Drawable.Image, kitty.WithColumns(columns)); err != nil {
			return err
		}
	case ImagesANSI:
		bounds := img.Drawable.Bounds
		rows := 1
		if bounds.Dx() > 0 {
			rows = max(1, columns*bounds.Dy()/bounds.Dx()/2)
		}
		ai, err := ansimage.NewScaledFromImage(img.Drawable.Image, 2*rows, columns, color.Black, ansimage.ScaleModeFit, ansimage.NoDithering)
		if err != nil {
			r.logger.Warn("drawing image", "source", img.Source, "err", err)
			return r.renderImagePlaceholder(w, l, img, seg)
		}
		if err := r.writeString(lw, ai.Render()); err != nil {
			return err
		}
	}
	return lw.finish()
}

func (r *Renderer) renderImagePlaceholder(w io.Writer, l *line, img *spanned.Image, seg segment) error {
	if err := r.ensureLine(w, l, seg.start); err != nil {
		return err
	}

	state := r.styleOf(seg.spans)
	state.reverse = seg.selected
	if err := r.setState(w, state); err != nil {
		return err
	}

	text := "[image]"
	if img.Alt != "" {
		text = "[image: " + img.Alt + "]"
	}
	return r.writeText(w, l, text, seg.start, state)
}

package renderer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"

	"github.com/rohitmishra4444/html-textview/spanned"
	"github.com/rohitmishra4444/html-textview/styles"
)

type tableBorders []rune

func (b tableBorders) topLeft() rune {
	return b[0]
}

func (b tableBorders) topJoin() rune {
	return b[1]
}

func (b tableBorders) topRight() rune {
	return b[2]
}

func (b tableBorders) middleLeft() rune {
	return b[3]
}

func (b tableBorders) middleJoin() rune {
	return b[4]
}

func (b tableBorders) middleRight() rune {
	return b[5]
}

func (b tableBorders) bottomLeft() rune {
	return b[6]
}

func (b tableBorders) bottomJoin() rune {
	return b[7]
}

func (b tableBorders) bottomRight() rune {
	return b[8]
}

func (b tableBorders) vertical() rune {
	return b[9]
}

func (b tableBorders) horizontal() string {
	return string(b[10:11])
}

var borders = tableBorders("╭┬╮├┼┤╰┴╯│─")

// A Cell is a table cell. Each line of the cell's text is an element of Lines.
type Cell struct {
	Lines  []string
	Header bool
}

// A Table is the grid of cells of a table. Rows may have different numbers of cells.
type Table struct {
	Rows [][]Cell
}

// Columns returns the number of cells in the longest row.
func (t *Table) Columns() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row))
	}
	return n
}

// ParseTable parses the markup of a table. Only the rows and cells of the outermost table are recognized; the text of
// nested tables becomes part of the enclosing cell. Line breaks and list items start new lines within a cell.
func ParseTable(markup string) *Table {
	var (
		t      Table
		row    []Cell
		inRow  bool
		cell   strings.Builder
		inCell bool
		header bool
		depth  int
	)

	finishCell := func() {
		if inCell {
			row = append(row, Cell{Lines: cellLines(cell.String()), Header: header})
			cell.Reset()
			inCell = false
		}
	}
	finishRow := func() {
		finishCell()
		if inRow {
			t.Rows = append(t.Rows, row)
			row, inRow = nil, false
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			finishRow()
			return &t
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "table":
				depth++
			case "tr":
				if depth <= 1 {
					finishRow()
					inRow = true
				} else if inCell {
					cell.WriteByte('\n')
				}
			case "td", "th":
				if depth <= 1 {
					finishCell()
					inRow, inCell, header = true, true, string(name) == "th"
				} else if inCell {
					cell.WriteByte(' ')
				}
			case "br", "li":
				if inCell {
					cell.WriteByte('\n')
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "table":
				depth--
			case "tr":
				if depth <= 1 {
					finishRow()
				}
			case "td", "th":
				if depth <= 1 {
					finishCell()
				}
			}
		case html.TextToken:
			if inCell {
				cell.Write(z.Text())
			}
		}
	}
}

func cellLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// GridTable draws a table as a grid of bordered cells.
type GridTable struct {
	theme *chroma.Style
	html  string
	table *Table

	state sgrState
}

// NewGridTable creates a GridTable that colors its output using theme. theme may be nil.
func NewGridTable(theme *chroma.Style) *GridTable {
	return &GridTable{theme: theme, table: &Table{}}
}

// SetTableHTML implements spanned.TableHandler.
func (g *GridTable) SetTableHTML(html string) {
	g.html, g.table = html, ParseTable(html)
}

// HTML returns the table's markup.
func (g *GridTable) HTML() string {
	return g.html
}

func (g *GridTable) setStyle(w io.Writer, token chroma.TokenType) error {
	var state sgrState
	if g.theme != nil {
		state.entry = overlay(g.theme, overlay(g.theme, chroma.StyleEntry{}, chroma.Generic), token)
	}
	if err := writeTransition(w, g.state, state); err != nil {
		return err
	}
	g.state = state
	return nil
}

func (g *GridTable) endLine(w io.Writer) error {
	if err := writeTransition(w, g.state, sgrState{}); err != nil {
		return err
	}
	g.state = sgrState{}
	_, err := io.WriteString(w, "\n")
	return err
}

// columnWidths measures each column and shrinks the widest columns until the grid fits in width.
func (g *GridTable) columnWidths(width int) []int {
	widths := make([]int, g.table.Columns())
	for i := range widths {
		widths[i] = 1
	}
	for _, row := range g.table.Rows {
		for i, cell := range row {
			for _, l := range cell.Lines {
				widths[i] = max(widths[i], uniseg.StringWidth(l))
			}
		}
	}

	if width <= 0 {
		return widths
	}
	total := len(widths) + 1
	for _, w := range widths {
		total += w
	}
	for total > width {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 1 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func (g *GridTable) drawBorder(w io.Writer, widths []int, left, join, right rune) error {
	if err := g.setStyle(w, styles.TableBorder); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteRune(left)
	for i, width := range widths {
		if i > 0 {
			b.WriteRune(join)
		}
		b.WriteString(strings.Repeat(borders.horizontal(), width))
	}
	b.WriteRune(right)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return g.endLine(w)
}

func (g *GridTable) drawRow(w io.Writer, widths []int, row []Cell, token chroma.TokenType) error {
	height := 1
	for _, cell := range row {
		height = max(height, len(cell.Lines))
	}

	for line := 0; line < height; line++ {
		for i, width := range widths {
			if err := g.setStyle(w, styles.TableBorder); err != nil {
				return err
			}
			if _, err := io.WriteString(w, string(borders.vertical())); err != nil {
				return err
			}

			text := ""
			cellToken := token
			if i < len(row) {
				if line < len(row[i].Lines) {
					text = ansi.Truncate(row[i].Lines[line], width, "…")
				}
				if row[i].Header {
					cellToken = styles.TableHeader
				}
			}
			if err := g.setStyle(w, cellToken); err != nil {
				return err
			}
			if _, err := io.WriteString(w, text+strings.Repeat(" ", max(0, width-uniseg.StringWidth(text)))); err != nil {
				return err
			}
		}
		if err := g.setStyle(w, styles.TableBorder); err != nil {
			return err
		}
		if _, err := io.WriteString(w, string(borders.vertical())); err != nil {
			return err
		}
		if err := g.endLine(w); err != nil {
			return err
		}
	}
	return nil
}

func isHeaderRow(row []Cell) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		if !cell.Header {
			return false
		}
	}
	return true
}

// Draw implements spanned.TableDrawer. A table without cells draws nothing.
func (g *GridTable) Draw(w io.Writer, width int) error {
	widths := g.columnWidths(width)
	if len(widths) == 0 {
		return nil
	}

	if err := g.drawBorder(w, widths, borders.topLeft(), borders.topJoin(), borders.topRight()); err != nil {
		return err
	}
	body := 0
	for i, row := range g.table.Rows {
		token := styles.TableRow
		switch {
		case isHeaderRow(row):
			token = styles.TableHeader
		case body%2 == 1:
			token = styles.TableRowAlt
		}
		if !isHeaderRow(row) {
			body++
		}

		if err := g.drawRow(w, widths, row, token); err != nil {
			return err
		}
		if isHeaderRow(row) && i < len(g.table.Rows)-1 {
			if err := g.drawBorder(w, widths, borders.middleLeft(), borders.middleJoin(), borders.middleRight()); err != nil {
				return err
			}
		}
	}
	return g.drawBorder(w, widths, borders.bottomLeft(), borders.bottomJoin(), borders.bottomRight())
}

// LinkTable draws a table as a single link-like label. Clicking the label passes the table's markup to OnClickFunc,
// or opens the markup in the default browser if OnClickFunc is nil.
type LinkTable struct {
	Label       string
	OnClickFunc func(ctx context.Context, html string) error

	theme *chroma.Style
	html  string
}

// NewLinkTable creates a LinkTable with the label "[table]".
func NewLinkTable(theme *chroma.Style, onClick func(ctx context.Context, html string) error) *LinkTable {
	return &LinkTable{Label: "[table]", OnClickFunc: onClick, theme: theme}
}

// SetTableHTML implements spanned.TableHandler.
func (t *LinkTable) SetTableHTML(html string) {
	t.html = html
}

// HTML returns the table's markup.
func (t *LinkTable) HTML() string {
	return t.html
}

// Draw implements spanned.TableDrawer.
func (t *LinkTable) Draw(w io.Writer, width int) error {
	var state sgrState
	if t.theme != nil {
		state.entry = overlay(t.theme, overlay(t.theme, chroma.StyleEntry{}, chroma.Generic), styles.Link)
	}
	if err := writeTransition(w, sgrState{}, state); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ansi.Truncate(t.Label, max(width, 0), "…")); err != nil {
		return err
	}
	if err := writeTransition(w, state, sgrState{}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// OnClick implements spanned.ClickableTable.
func (t *LinkTable) OnClick(ctx context.Context) error {
	if t.OnClickFunc != nil {
		return t.OnClickFunc(ctx, t.html)
	}

	f, err := os.CreateTemp("", "table-*.html")
	if err != nil {
		return fmt.Errorf("creating table file: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, "<!DOCTYPE html>\n<html><body>"+t.html+"</body></html>\n"); err != nil {
		return fmt.Errorf("writing table file: %w", err)
	}
	return spanned.Navigate("file://" + f.Name())
}

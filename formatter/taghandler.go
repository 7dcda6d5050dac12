package formatter

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// TablePlaceholder is the text that stands in for a table in the output. The table's annotations cover it.
const TablePlaceholder = "table placeholder"

const (
	defaultIndent         = 10
	defaultListItemIndent = defaultIndent * 2
)

type markKind int

const (
	markUnordered markKind = iota
	markOrdered
	markAnchor
	markCode
	markCenter
	markStrike
	markTable
	markRow
	markHeaderCell
	markCell
	markKindCount
)

type pendingMark struct {
	mark *spanned.Mark
	href string
}

type listState struct {
	ordered bool
	// The 1-based index of the next item. Only used by ordered lists.
	next int
}

// TagHandler converts lists, links, code, centered text, strikethrough and tables into styled text. It keeps the
// nesting state of one document, so each formatting call needs its own TagHandler.
type TagHandler struct {
	clickableTable ClickableTableFactory
	tableDrawer    TableDrawerFactory
	linkHandler    LinkClickHandler
	indent         int
	logger         *log.Logger

	// Pending marks per kind. The top of each stack is the innermost unresolved open tag of that kind.
	marks [markKindCount][]pendingMark

	// Open lists; the bottom is the outermost.
	lists []listState

	// The reconstructed markup of the current root table, and the current table nesting depth.
	tableHTML  strings.Builder
	tableDepth int
}

// NewTagHandler creates a TagHandler configured by opts.
func NewTagHandler(opts *Options) *TagHandler {
	h := &TagHandler{
		clickableTable: opts.ClickableTable,
		tableDrawer:    opts.TableDrawer,
		linkHandler:    opts.LinkClickHandler,
		indent:         -1,
		logger:         opts.logger(),
	}
	if opts.ListIndent >= 0 {
		h.indent = int(math.Round(opts.ListIndent))
	}
	return h
}

// HandleTag processes an opening or closing tag. It returns false if the tag is not one the TagHandler handles, in
// which case the caller should fall back to the standard handling.
func (h *TagHandler) HandleTag(opening bool, tag string, out *spanned.Buffer, attrs sax.Attributes) bool {
	var handled bool
	if opening {
		h.logger.Debug("opening", "tag", tag, "len", out.Len())
		handled = h.open(tag, out, attrs)
	} else {
		h.logger.Debug("closing", "tag", tag, "len", out.Len())
		handled = h.close(tag, out)
	}
	if handled {
		h.storeTableTag(opening, tag)
	}
	return handled
}

func (h *TagHandler) open(tag string, out *spanned.Buffer, attrs sax.Attributes) bool {
	switch strings.ToLower(tag) {
	case UnorderedListTag:
		h.lists = append(h.lists, listState{})
	case OrderedListTag:
		h.lists = append(h.lists, listState{ordered: true, next: 1})
	case ListItemTag:
		if out.Len() != 0 && !out.EndsWithNewline() {
			_ = out.WriteByte('\n')
		}
		if len(h.lists) != 0 {
			parent := &h.lists[len(h.lists)-1]
			if parent.ordered {
				h.start(out, markOrdered, "")
				parent.next++
			} else {
				h.start(out, markUnordered, "")
			}
		}
	case AnchorTag:
		href, _ := attrs.Value("href")
		h.start(out, markAnchor, href)
	case "code":
		h.start(out, markCode, "")
	case "center":
		h.start(out, markCenter, "")
	case "s", "strike":
		h.start(out, markStrike, "")
	case "table":
		h.start(out, markTable, "")
		if h.tableDepth == 0 {
			h.tableHTML.Reset()
			// The other table tags remove their text when it is extracted, so the table needs some text of its own
			// for its spans to cover.
			_, _ = out.WriteString(TablePlaceholder)
		}
		h.tableDepth++
	case "tr":
		h.start(out, markRow, "")
	case "th":
		h.start(out, markHeaderCell, "")
	case "td":
		h.start(out, markCell, "")
	default:
		return false
	}
	return true
}

func (h *TagHandler) close(tag string, out *spanned.Buffer) bool {
	switch strings.ToLower(tag) {
	case UnorderedListTag:
		h.popList()
	case OrderedListTag:
		h.popList()
	case ListItemTag:
		h.closeListItem(out)
	case AnchorTag:
		h.closeAnchor(out)
	case "code":
		h.end(out, markCode, false, spanned.Typeface{Family: spanned.Monospace})
	case "center":
		h.end(out, markCenter, true, spanned.Alignment{Align: spanned.AlignCenter})
	case "s", "strike":
		h.end(out, markStrike, false, spanned.Strikethrough{})
	case "table":
		h.closeTable(out)
	case "tr":
		h.end(out, markRow, false)
	case "th":
		h.end(out, markHeaderCell, false)
	case "td":
		h.end(out, markCell, false)
	default:
		return false
	}
	return true
}

func (h *TagHandler) popList() {
	if len(h.lists) != 0 {
		h.lists = h.lists[:len(h.lists)-1]
	}
}

// listItemIndent returns the indentation of one list nesting level.
func (h *TagHandler) listItemIndent() int {
	if h.indent > -1 {
		return h.indent * 2
	}
	return defaultListItemIndent
}

func (h *TagHandler) closeListItem(out *spanned.Buffer) {
	if len(h.lists) == 0 {
		return
	}

	if out.Len() != 0 && !out.EndsWithNewline() {
		_ = out.WriteByte('\n')
	}

	depth := len(h.lists)
	listItemIndent := h.listItemIndent()
	indent := defaultIndent
	if h.indent > -1 {
		indent = h.indent
	}

	// Nested bullets and numbers widen the gap between the marker and the text, so the gap is reduced by the margin
	// of the marker itself and by the margins of the enclosing levels beyond the first.
	adjust := func(margin int) int {
		gap := indent
		if depth > 1 {
			gap -= margin
			if depth > 2 {
				gap -= (depth - 2) * listItemIndent
			}
		}
		return gap
	}

	margin := spanned.LeadingMargin{Width: listItemIndent * (depth - 1)}
	parent := h.lists[depth-1]
	if parent.ordered {
		number := parent.next - 1
		gap := adjust(spanned.Number{Gap: indent, Number: number}.LeadingMargin())
		h.end(out, markOrdered, false, margin, spanned.Number{Gap: gap, Number: number})
	} else {
		gap := adjust(spanned.Bullet{Gap: indent}.LeadingMargin())
		h.end(out, markUnordered, false, margin, spanned.Bullet{Gap: gap})
	}
}

func (h *TagHandler) closeAnchor(out *spanned.Buffer) {
	stack := h.marks[markAnchor]
	if len(stack) == 0 {
		return
	}
	href := stack[len(stack)-1].href

	link := &spanned.Link{URL: href}
	if h.linkHandler != nil {
		handler := h.linkHandler
		link.OnClick = func(ctx context.Context, url string) error {
			return handler.OnLinkClick(ctx, url)
		}
	}
	h.end(out, markAnchor, false, link)
}

func (h *TagHandler) closeTable(out *spanned.Buffer) {
	if len(h.marks[markTable]) == 0 {
		return
	}
	if h.tableDepth > 0 {
		h.tableDepth--
	}
	if h.tableDepth > 0 {
		h.end(out, markTable, false)
		return
	}

	// Back at the root table: the capture is complete once the closing tag is part of it.
	h.tableHTML.WriteString("</table>")
	tableHTML := h.tableHTML.String()

	var styles []spanned.Style
	if h.tableDrawer != nil {
		drawer := h.tableDrawer.NewInstance()
		drawer.SetTableHTML(tableHTML)
		styles = append(styles, spanned.TableDraw{Drawer: drawer})
	}
	if h.clickableTable != nil {
		table := h.clickableTable.NewInstance()
		table.SetTableHTML(tableHTML)
		styles = append(styles, spanned.TableClick{Table: table})
	}
	h.end(out, markTable, false, styles...)
}

// start pushes a mark of the given kind at the current end of the buffer.
func (h *TagHandler) start(out *spanned.Buffer, kind markKind, href string) {
	h.marks[kind] = append(h.marks[kind], pendingMark{mark: out.Mark(), href: href})
}

// end resolves the innermost pending mark of the given kind and attaches styles to the text written since the mark
// was placed. Inside a table, that text is moved into the table capture instead. Paragraph styles must end with a
// newline, so one is appended for them. Without a pending mark, end does nothing.
func (h *TagHandler) end(out *spanned.Buffer, kind markKind, paragraph bool, styles ...spanned.Style) {
	stack := h.marks[kind]
	if len(stack) == 0 {
		return
	}
	m := stack[len(stack)-1].mark
	h.marks[kind] = stack[:len(stack)-1]

	where := m.Pos()
	if h.tableDepth > 0 {
		h.tableHTML.WriteString(out.Slice(where, out.Len()))
		out.Delete(where, out.Len())
	}
	out.Unmark(m)

	end := out.Len()
	if where == end {
		return
	}
	if paragraph {
		_ = out.WriteByte('\n')
		end++
	}
	for _, s := range styles {
		out.SetSpan(s, where, end)
	}
}

// storeTableTag appends a handled tag to the table capture while inside a table, or when the tag is the table tag
// itself.
func (h *TagHandler) storeTableTag(opening bool, tag string) {
	name := naturalTag(tag)
	if h.tableDepth == 0 && name != "table" {
		return
	}
	if !opening && name == "table" && h.tableDepth == 0 {
		// The root table's closing tag was captured when the table was closed.
		return
	}
	h.tableHTML.WriteByte('<')
	if !opening {
		h.tableHTML.WriteByte('/')
	}
	h.tableHTML.WriteString(name)
	h.tableHTML.WriteByte('>')
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/log"

	"github.com/rohitmishra4444/html-textview/indexer"
	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/spanned"
)

// A target is a clickable range of the document: a link or a table.
type target struct {
	start, end int
	label      string
	click      func(ctx context.Context) error
	anchor     string
}

type clickedMsg struct {
	label string
	err   error
}

type reader struct {
	ctx    context.Context
	name   string
	logger *log.Logger

	theme    *chroma.Style
	images   renderer.ImageMode
	text     *spanned.Text
	index    *indexer.DocumentIndex
	renderer *renderer.Renderer
	targets  []target
	selected int

	viewport viewport.Model
	status   string
	width    int
	ready    bool
}

var statusStyle = lipgloss.NewStyle().Reverse(true)

func newReader(ctx context.Context, name string, text *spanned.Text, theme *chroma.Style, images renderer.ImageMode, logger *log.Logger) *reader {
	r := &reader{
		ctx:      ctx,
		name:     name,
		logger:   logger,
		theme:    theme,
		images:   images,
		text:     text,
		index:    indexer.Index(text),
		selected: -1,
		viewport: viewport.New(),
	}
	r.renderer = r.newRenderer(0)
	r.targets = collectTargets(text)
	return r
}

// collectTargets returns the links and clickable tables of text in document order.
func collectTargets(text *spanned.Text) []target {
	var targets []target
	source := text.String()
	for _, s := range text.Spans() {
		switch style := s.Style.(type) {
		case *spanned.Link:
			if style.URL == "" {
				continue
			}
			t := target{start: s.Start, end: s.End, label: style.URL, click: style.Click}
			if strings.HasPrefix(style.URL, "#") {
				t.anchor = style.URL[1:]
			}
			targets = append(targets, t)
		case spanned.TableClick:
			targets = append(targets, target{
				start: s.Start,
				end:   s.End,
				label: "table: " + source[s.Start:s.End],
				click: style.Table.OnClick,
			})
		}
	}
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].start < targets[j].start })
	return targets
}

func (r *reader) newRenderer(width int) *renderer.Renderer {
	return renderer.New(
		renderer.WithTheme(r.theme),
		renderer.WithWordWrap(width),
		renderer.WithHyperlinks(true),
		renderer.WithImages(r.images, 0),
		renderer.WithLogger(r.logger))
}

func (r *reader) Init() tea.Cmd {
	return nil
}

// render re-renders the document at the current width and selection.
func (r *reader) render() {
	if r.selected >= 0 {
		t := r.targets[r.selected]
		r.renderer.Select(t.start, t.end)
	} else {
		r.renderer.Select(0, 0)
	}

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, r.text); err != nil {
		r.logger.Error("rendering document", "err", err)
		r.status = err.Error()
	}
	r.viewport.SetContent(buf.String())
}

// scrollTo scrolls the viewport so that the line holding offset is visible.
func (r *reader) scrollTo(offset int) {
	line := r.renderer.LineOf(offset)
	top, height := r.viewport.YOffset(), r.viewport.Height()
	switch {
	case line < top:
		r.viewport.SetYOffset(line)
	case height > 0 && line >= top+height:
		r.viewport.SetYOffset(line - height + 1)
	}
}

// section returns the anchor of the section shown at the top of the viewport.
func (r *reader) section() string {
	starts := r.renderer.LineStarts()
	if len(starts) == 0 {
		return ""
	}
	top := starts[min(r.viewport.YOffset(), len(starts)-1)]
	return r.index.SectionAt(top).Anchor
}

func (r *reader) selectTarget(i int) {
	if len(r.targets) == 0 {
		return
	}
	r.selected = (i + len(r.targets)) % len(r.targets)
	r.status = r.targets[r.selected].label
	r.render()
	r.scrollTo(r.targets[r.selected].start)
}

// click activates the selected target. Links to anchors in the document scroll to the anchored section; other
// targets run their click handler in the background.
func (r *reader) click() tea.Cmd {
	if r.selected < 0 {
		return nil
	}
	t := r.targets[r.selected]

	if t.anchor != "" {
		sections, ok := r.index.Lookup(t.anchor)
		if !ok {
			r.status = fmt.Sprintf("no section named %q", t.anchor)
			return nil
		}
		r.viewport.SetYOffset(r.renderer.LineOf(sections[0].Start))
		r.status = sections[0].Anchor
		return nil
	}

	ctx := r.ctx
	return func() tea.Msg {
		return clickedMsg{label: t.label, err: t.click(ctx)}
	}
}

func (r *reader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.viewport.SetWidth(msg.Width)
		r.viewport.SetHeight(max(1, msg.Height-1))
		r.renderer = r.newRenderer(msg.Width)
		r.render()
		r.ready = true
		return r, nil
	case clickedMsg:
		if msg.err != nil {
			r.logger.Warn("click failed", "target", msg.label, "err", msg.err)
			r.status = msg.err.Error()
		} else {
			r.status = "opened " + msg.label
		}
		return r, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case "tab":
			r.selectTarget(r.selected + 1)
			return r, nil
		case "shift+tab":
			if r.selected < 0 {
				r.selectTarget(-1)
			} else {
				r.selectTarget(r.selected - 1)
			}
			return r, nil
		case "enter":
			return r, r.click()
		}
	}

	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *reader) View() tea.View {
	content := "loading..."
	if r.ready {
		status := r.name
		if section := r.section(); section != "" {
			status += " > " + section
		}
		if r.status != "" {
			status += " | " + r.status
		}
		content = lipgloss.JoinVertical(lipgloss.Left,
			r.viewport.View(),
			statusStyle.Width(r.width).MaxWidth(r.width).Render(status))
	}

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

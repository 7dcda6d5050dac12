package main

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmishra4444/html-textview/formatter"
	"github.com/rohitmishra4444/html-textview/renderer"
	"github.com/rohitmishra4444/html-textview/spanned"
)

const document = `<h1>Intro</h1><p>see <a href="#details">details</a> or <a href="https://example.com">the site</a></p>` +
	`<table><tr><td>x</td></tr></table><h1>Details</h1><p>more</p>`

type clicks struct {
	links  []string
	tables []string
}

func newTestReader(t *testing.T) (*reader, *clicks) {
	var c clicks
	text, err := formatter.Format(document,
		formatter.WithLinkClickHandler(formatter.LinkClickHandlerFunc(func(_ context.Context, url string) error {
			c.links = append(c.links, url)
			return nil
		})),
		formatter.WithTableDrawer(formatter.TableDrawerFactoryFunc(func() spanned.TableDrawer {
			return renderer.NewGridTable(nil)
		})),
		formatter.WithClickableTable(formatter.ClickableTableFactoryFunc(func() spanned.ClickableTable {
			return renderer.NewLinkTable(nil, func(_ context.Context, html string) error {
				c.tables = append(c.tables, html)
				return nil
			})
		})))
	require.NoError(t, err)

	r := newReader(context.Background(), "doc.html", text, nil, renderer.ImagesOff, log.New(&strings.Builder{}))
	_, _ = r.Update(tea.WindowSizeMsg{Width: 40, Height: 2})
	return r, &c
}

func TestCollectTargets(t *testing.T) {
	r, _ := newTestReader(t)
	require.Len(t, r.targets, 3)

	assert.Equal(t, "#details", r.targets[0].label)
	assert.Equal(t, "details", r.targets[0].anchor)
	assert.Equal(t, "https://example.com", r.targets[1].label)
	assert.Equal(t, "table: "+formatter.TablePlaceholder, r.targets[2].label)
	assert.Less(t, r.targets[0].start, r.targets[1].start)
	assert.Less(t, r.targets[1].start, r.targets[2].start)
}

func TestSelectionCycles(t *testing.T) {
	r, _ := newTestReader(t)
	assert.Equal(t, -1, r.selected)

	r.selectTarget(r.selected + 1)
	assert.Equal(t, 0, r.selected)
	assert.Equal(t, "#details", r.status)

	r.selectTarget(3)
	assert.Equal(t, 0, r.selected)

	r.selectTarget(-1)
	assert.Equal(t, 2, r.selected)
}

func TestClickLinkAndTable(t *testing.T) {
	r, c := newTestReader(t)

	r.selectTarget(1)
	cmd := r.click()
	require.NotNil(t, cmd)
	msg := cmd().(clickedMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, []string{"https://example.com"}, c.links)

	_, _ = r.Update(msg)
	assert.Equal(t, "opened https://example.com", r.status)

	r.selectTarget(2)
	msg = r.click()().(clickedMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, []string{"<table><tr><td>x</td></tr></table>"}, c.tables)
}

func TestClickAnchorScrolls(t *testing.T) {
	r, c := newTestReader(t)
	r.selectTarget(0)

	assert.Nil(t, r.click())
	assert.Empty(t, c.links)
	assert.Equal(t, "details", r.status)

	sections, ok := r.index.Lookup("details")
	require.True(t, ok)
	assert.Equal(t, r.renderer.LineOf(sections[0].Start), r.viewport.YOffset())
	assert.Equal(t, "details", r.section())
}

func TestClickWithoutSelection(t *testing.T) {
	r, _ := newTestReader(t)
	assert.Nil(t, r.click())
}

func TestView(t *testing.T) {
	r, _ := newTestReader(t)
	assert.Equal(t, "intro", r.section())
	v := r.View()
	assert.True(t, v.AltScreen)
}

package renderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	table := ParseTable("<table><tr><th>a  b</th><th>c</th></tr><tr><td>x<br>y</td></tr></table>")
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []Cell{{Lines: []string{"a b"}, Header: true}, {Lines: []string{"c"}, Header: true}}, table.Rows[0])
	assert.Equal(t, []Cell{{Lines: []string{"x", "y"}}}, table.Rows[1])
	assert.Equal(t, 2, table.Columns())
}

func TestParseNestedTable(t *testing.T) {
	table := ParseTable("<table><tr><td>out<table><tr><td>in</td><td>side</td></tr></table></td></tr></table>")
	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0], 1)
	assert.Equal(t, []string{"out", "in side"}, table.Rows[0][0].Lines)
}

func TestParseListInCell(t *testing.T) {
	table := ParseTable("<table><tr><td><ul><li>one\n</li><li>two\n</li></ul>\n</td></tr></table>")
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"one", "two"}, table.Rows[0][0].Lines)
}

func TestGridTableShrinks(t *testing.T) {
	g := NewGridTable(nil)
	g.SetTableHTML("<table><tr><td>hello</td><td>x</td></tr></table>")

	var buf bytes.Buffer
	require.NoError(t, g.Draw(&buf, 8))
	assert.Equal(t, "╭────┬─╮\n│hel…│x│\n╰────┴─╯\n", buf.String())
	assert.Equal(t, "<table><tr><td>hello</td><td>x</td></tr></table>", g.HTML())
}

func TestGridTableRowHeight(t *testing.T) {
	g := NewGridTable(nil)
	g.SetTableHTML("<table><tr><td>a<br>b</td><td>c</td></tr><tr><td>d</td><td>e</td></tr></table>")

	var buf bytes.Buffer
	require.NoError(t, g.Draw(&buf, 0))
	expected := "╭─┬─╮\n" +
		"│a│c│\n" +
		"│b│ │\n" +
		"│d│e│\n" +
		"╰─┴─╯\n"
	assert.Equal(t, expected, buf.String())
}

func TestGridTableEmpty(t *testing.T) {
	g := NewGridTable(nil)
	g.SetTableHTML("<table></table>")

	var buf bytes.Buffer
	require.NoError(t, g.Draw(&buf, 80))
	assert.Empty(t, buf.String())
}

func TestLinkTable(t *testing.T) {
	var clicked string
	lt := NewLinkTable(nil, func(_ context.Context, html string) error {
		clicked = html
		return nil
	})
	lt.SetTableHTML("<table><tr><td>x</td></tr></table>")

	var buf bytes.Buffer
	require.NoError(t, lt.Draw(&buf, 80))
	assert.Equal(t, "[table]\n", buf.String())

	require.NoError(t, lt.OnClick(context.Background()))
	assert.Equal(t, "<table><tr><td>x</td></tr></table>", clicked)
	assert.Equal(t, clicked, lt.HTML())
}

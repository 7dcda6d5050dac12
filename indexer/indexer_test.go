package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitmishra4444/html-textview/formatter"
)

func TestGitHubFlavoredMarkdown(t *testing.T) {
	cases := map[string]string{
		"Intro":              "intro",
		"Sub Part!":          "sub-part",
		"  What's new? ":     "whats-new",
		"already-hyphenated": "already-hyphenated",
	}
	for heading, expected := range cases {
		assert.Equal(t, expected, GitHubFlavoredMarkdown(heading), heading)
	}
}

func TestIndex(t *testing.T) {
	text, err := formatter.Format("<h1>Intro</h1><p>a</p><h2>Sub Part!</h2><p>b</p><h1>Next</h1>")
	require.NoError(t, err)
	require.Equal(t, "Intro\n\na\n\nSub Part!\n\nb\n\nNext\n\n", text.String())

	index := Index(text)
	toc := index.TableOfContents()
	assert.Equal(t, 0, toc.Start)
	assert.Equal(t, text.Len(), toc.End)
	require.Len(t, toc.Subsections, 2)

	intro := toc.Subsections[0]
	assert.Equal(t, "intro", intro.Anchor)
	assert.Equal(t, 1, intro.Level)
	assert.Equal(t, 0, intro.Start)
	assert.Equal(t, 24, intro.End)
	require.Len(t, intro.Subsections, 1)

	sub := intro.Subsections[0]
	assert.Equal(t, "sub-part", sub.Anchor)
	assert.Equal(t, 10, sub.Start)
	assert.Equal(t, 24, sub.End)
	assert.True(t, sub.Contains(20))
	assert.False(t, sub.Contains(24))

	next, ok := index.Lookup("next")
	require.True(t, ok)
	require.Len(t, next, 1)
	assert.Equal(t, 24, next[0].Start)
	assert.Equal(t, text.Len(), next[0].End)

	_, ok = index.Lookup("missing")
	assert.False(t, ok)
}

func TestCustomAnchors(t *testing.T) {
	text, err := formatter.Format("<h3>A</h3><h3>A</h3>")
	require.NoError(t, err)

	index := Index(text, WithAnchors(func(heading string) string { return "x-" + heading }))
	sections, ok := index.Lookup("x-A")
	require.True(t, ok)
	assert.Len(t, sections, 2)
}

func TestSectionAt(t *testing.T) {
	text, err := formatter.Format("<p>pre</p><h2>A</h2><p>x</p><h3>B</h3><p>y</p><h2>C</h2>")
	require.NoError(t, err)
	require.Equal(t, "pre\n\nA\n\nx\n\nB\n\ny\n\nC\n\n", text.String())

	index := Index(text)
	cases := []struct {
		offset int
		anchor string
	}{
		{0, ""},
		{4, ""},
		{5, "a"},
		{8, "a"},
		{11, "b"},
		{15, "b"},
		{17, "c"},
	}
	for _, c := range cases {
		assert.Equal(t, c.anchor, index.SectionAt(c.offset).Anchor, "offset %d", c.offset)
	}
	assert.Same(t, index.TableOfContents(), index.SectionAt(-1))
}

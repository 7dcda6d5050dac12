package spanned

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferMarksSurviveAppend(t *testing.T) {
	var b Buffer
	_, err := b.WriteString("hello ")
	require.NoError(t, err)

	m := b.Mark()
	assert.Equal(t, 6, m.Pos())

	_, err = b.WriteString("world")
	require.NoError(t, err)
	assert.Equal(t, 6, m.Pos())
	assert.Equal(t, "world", b.Slice(m.Pos(), b.Len()))
}

func TestBufferDelete(t *testing.T) {
	var b Buffer
	_, _ = b.WriteString("abcdefghij")

	before := &Mark{pos: 1, live: true}
	inside := &Mark{pos: 4, live: true}
	after := &Mark{pos: 8, live: true}
	b.marks = append(b.marks, before, inside, after)

	b.SetSpan(Bold{}, 0, 10)
	b.SetSpan(Italic{}, 3, 6)
	b.SetSpan(Underline{}, 7, 9)

	b.Delete(3, 6)

	assert.Equal(t, "abcghij", b.String())
	assert.Equal(t, 1, before.Pos())
	assert.Equal(t, 3, inside.Pos())
	assert.Equal(t, 5, after.Pos())

	spans := b.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, KindBold, spans[0].Style.Kind())
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 7, spans[0].End)
	assert.Equal(t, KindUnderline, spans[1].Style.Kind())
	assert.Equal(t, 4, spans[1].Start)
	assert.Equal(t, 6, spans[1].End)
}

func TestBufferUnmark(t *testing.T) {
	var b Buffer
	m := b.Mark()
	b.Unmark(m)
	b.Unmark(m)
	assert.Empty(t, b.marks)

	_, _ = b.WriteString("abc")
	b.Delete(0, 3)
	assert.Equal(t, 0, m.Pos())
}

func TestBufferSetSpanIgnoresEmpty(t *testing.T) {
	var b Buffer
	_, _ = b.WriteString("abc")
	b.SetSpan(Bold{}, 1, 1)
	assert.Empty(t, b.Spans())

	assert.Panics(t, func() { b.SetSpan(Bold{}, 2, 4) })
}

func TestSpansOrdering(t *testing.T) {
	var b Buffer
	_, _ = b.WriteString("0123456789")
	b.SetSpan(Italic{}, 2, 4)
	b.SetSpan(Bold{}, 0, 5)
	b.SetSpan(LeadingMargin{Width: 20}, 2, 8)
	b.SetSpan(Bullet{Gap: 10}, 2, 8)

	spans := b.Spans()
	kinds := make([]Kind, len(spans))
	for i, s := range spans {
		kinds[i] = s.Style.Kind()
	}
	assert.Equal(t, []Kind{KindBold, KindLeadingMargin, KindBullet, KindItalic}, kinds)
}

func TestTrimTrailingNewlines(t *testing.T) {
	var b Buffer
	_, _ = b.WriteString("text \n\n\n")
	b.SetSpan(Bold{}, 0, 8)
	b.SetSpan(Italic{}, 6, 8)

	text := b.Text().TrimTrailingNewlines()
	assert.Equal(t, "text ", text.String())
	spans := text.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, 5, spans[0].End)

	plain := NewText("a\tb \t")
	assert.Same(t, plain, plain.TrimTrailingNewlines())

	empty := NewText("\n\n").TrimTrailingNewlines()
	assert.Equal(t, "", empty.String())
}

func TestTextQueries(t *testing.T) {
	text := NewText("hello world",
		Span{Start: 0, End: 5, Style: Bold{}},
		Span{Start: 6, End: 11, Style: &Link{URL: "https://example.com"}},
		Span{Start: 4, End: 20, Style: Italic{}})

	assert.Len(t, text.Spans(), 2)
	at := text.SpansAt(7)
	require.Len(t, at, 1)
	assert.Equal(t, KindLink, at[0].Style.Kind())
	assert.Len(t, text.SpansOf(KindBold), 1)
	assert.Empty(t, text.SpansOf(KindItalic))
}

func TestLinkClick(t *testing.T) {
	var navigated string
	old := Navigate
	Navigate = func(url string) error {
		navigated = url
		return nil
	}
	defer func() { Navigate = old }()

	link := &Link{URL: "https://example.com"}
	require.NoError(t, link.Click(context.Background()))
	assert.Equal(t, "https://example.com", navigated)

	var clicked string
	navigated = ""
	link.OnClick = func(_ context.Context, url string) error {
		clicked = url
		return nil
	}
	require.NoError(t, link.Click(context.Background()))
	assert.Equal(t, "https://example.com", clicked)
	assert.Empty(t, navigated)
}

func TestLinkWithoutURLDoesNotNavigate(t *testing.T) {
	called := false
	old := Navigate
	Navigate = func(string) error {
		called = true
		return nil
	}
	defer func() { Navigate = old }()

	require.NoError(t, (&Link{}).Click(context.Background()))
	assert.False(t, called)
}

func TestListMargins(t *testing.T) {
	assert.Equal(t, 16, Bullet{Gap: 10}.LeadingMargin())
	assert.Equal(t, 10, Number{Gap: 10, Number: 3}.LeadingMargin())
	assert.Equal(t, "table-draw", KindTableDraw.String())
	assert.True(t, KindBullet.IsParagraph())
	assert.False(t, KindLink.IsParagraph())
}

package spanned

import (
	"fmt"
	"sort"
)

// A Mark is a position in a Buffer that denotes an unresolved open tag. Marks are owned by the Buffer that created
// them: deleting text from the buffer keeps every live mark pointing at the same logical position.
type Mark struct {
	pos  int
	live bool
}

// Pos returns the byte offset of the mark. The offset of a mark that has been removed from its buffer is the offset
// it had at the time of removal.
func (m *Mark) Pos() int {
	return m.pos
}

// A Span attaches a Style to the byte range [Start, End) of a text. Spans are exclusive-exclusive: text inserted at
// either end of the range is not covered by the span.
type Span struct {
	// The byte offset of the start of the span. Inclusive.
	Start int
	// The byte offset of the end of the span. Exclusive.
	End int
	// The style attached to the range.
	Style Style

	seq int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains returns true if the given byte offset is contained within this span.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// Buffer is a mutable text buffer with attached spans and marks. Text is appended at the end; the only other
// mutation is Delete, which removes a range of text and adjusts spans and marks accordingly.
//
// The zero value is an empty buffer ready to use.
type Buffer struct {
	text  []byte
	spans []Span
	marks []*Mark
	seq   int
}

// NewBuffer creates a new, empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Len returns the length of the buffer's text in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// String returns the buffer's text.
func (b *Buffer) String() string {
	return string(b.text)
}

// LastByte returns the last byte of the buffer's text, if any.
func (b *Buffer) LastByte() (byte, bool) {
	if len(b.text) == 0 {
		return 0, false
	}
	return b.text[len(b.text)-1], true
}

// EndsWithNewline returns true if the buffer is non-empty and its last byte is a newline.
func (b *Buffer) EndsWithNewline() bool {
	c, ok := b.LastByte()
	return ok && c == '\n'
}

// Write appends p to the buffer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.text = append(b.text, p...)
	return len(p), nil
}

// WriteString appends s to the buffer. It never fails.
func (b *Buffer) WriteString(s string) (int, error) {
	b.text = append(b.text, s...)
	return len(s), nil
}

// WriteByte appends c to the buffer. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.text = append(b.text, c)
	return nil
}

// Slice returns the text in the byte range [start, end).
func (b *Buffer) Slice(start, end int) string {
	return string(b.text[start:end])
}

// Mark places a new mark at the current end of the buffer.
func (b *Buffer) Mark() *Mark {
	m := &Mark{pos: len(b.text), live: true}
	b.marks = append(b.marks, m)
	return m
}

// Unmark removes a mark from the buffer. Removing a mark that is not live is a no-op.
func (b *Buffer) Unmark(m *Mark) {
	if m == nil || !m.live {
		return
	}
	m.live = false
	for i, o := range b.marks {
		if o == m {
			b.marks = append(b.marks[:i], b.marks[i+1:]...)
			return
		}
	}
}

// SetSpan attaches a style to the byte range [start, end). Empty ranges are ignored.
func (b *Buffer) SetSpan(style Style, start, end int) {
	if start < 0 || end > len(b.text) || start > end {
		panic(fmt.Errorf("span [%d, %d) out of range [0, %d)", start, end, len(b.text)))
	}
	if start == end {
		return
	}
	b.seq++
	b.spans = append(b.spans, Span{Start: start, End: end, Style: style, seq: b.seq})
}

// Delete removes the text in the byte range [start, end). Marks and span boundaries inside the range move to start,
// those after the range move left by the length of the range, and spans that become empty are removed.
func (b *Buffer) Delete(start, end int) {
	if start < 0 || end > len(b.text) || start > end {
		panic(fmt.Errorf("delete [%d, %d) out of range [0, %d)", start, end, len(b.text)))
	}
	if start == end {
		return
	}

	n := end - start
	b.text = append(b.text[:start], b.text[end:]...)

	adjust := func(pos int) int {
		switch {
		case pos >= end:
			return pos - n
		case pos > start:
			return start
		default:
			return pos
		}
	}

	for _, m := range b.marks {
		m.pos = adjust(m.pos)
	}

	spans := b.spans[:0]
	for _, s := range b.spans {
		s.Start, s.End = adjust(s.Start), adjust(s.End)
		if s.Start != s.End {
			spans = append(spans, s)
		}
	}
	b.spans = spans
}

// Spans returns the spans attached to the buffer, ordered by start offset, then from outermost to innermost, then
// in attachment order.
func (b *Buffer) Spans() []Span {
	spans := make([]Span, len(b.spans))
	copy(spans, b.spans)
	sortSpans(spans)
	return spans
}

// Text freezes the buffer's current contents into an immutable Text.
func (b *Buffer) Text() *Text {
	return &Text{text: string(b.text), spans: b.Spans()}
}

func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.seq < b.seq
	})
}

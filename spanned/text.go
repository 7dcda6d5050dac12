package spanned

// Text is an immutable styled text: a string plus the spans attached to it.
type Text struct {
	text  string
	spans []Span
}

// NewText creates a Text from a string and a set of spans. Spans that fall outside of the string are dropped.
func NewText(text string, spans ...Span) *Text {
	kept := make([]Span, 0, len(spans))
	for i, s := range spans {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			continue
		}
		s.seq = i + 1
		kept = append(kept, s)
	}
	sortSpans(kept)
	return &Text{text: text, spans: kept}
}

// String returns the text without styles.
func (t *Text) String() string {
	return t.text
}

// Len returns the length of the text in bytes.
func (t *Text) Len() int {
	return len(t.text)
}

// Spans returns the spans attached to the text, ordered by start offset, then from outermost to innermost.
func (t *Text) Spans() []Span {
	spans := make([]Span, len(t.spans))
	copy(spans, t.spans)
	return spans
}

// SpansAt returns the spans that contain the given byte offset.
func (t *Text) SpansAt(offset int) []Span {
	var spans []Span
	for _, s := range t.spans {
		if s.Start > offset {
			break
		}
		if s.Contains(offset) {
			spans = append(spans, s)
		}
	}
	return spans
}

// SpansOf returns the spans whose style has the given kind.
func (t *Text) SpansOf(kind Kind) []Span {
	var spans []Span
	for _, s := range t.spans {
		if s.Style.Kind() == kind {
			spans = append(spans, s)
		}
	}
	return spans
}

// TrimTrailingNewlines returns a copy of the text with all trailing newline characters removed. Only '\n' is
// removed; other whitespace is left alone. Spans are clipped to the shortened text.
func (t *Text) TrimTrailingNewlines() *Text {
	end := len(t.text)
	for end > 0 && t.text[end-1] == '\n' {
		end--
	}
	if end == len(t.text) {
		return t
	}

	spans := make([]Span, 0, len(t.spans))
	for _, s := range t.spans {
		if s.End > end {
			s.End = end
		}
		if s.Start < s.End {
			spans = append(spans, s)
		}
	}
	return &Text{text: t.text[:end], spans: spans}
}

package indexer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rohitmishra4444/html-textview/spanned"
)

var gfmPunctuationRegexp = regexp.MustCompile(`[^\w\- ]`)

// GitHubFlavoredMarkdown is an AnchorFunc that transforms heading text into GitHub Flavored
// Markdown anchors. Heading text is converted to a GFM anchor by first converting all text
// to lowercase, removing all non-word, non-hyphen, and non-space characters, and then
// replacing all spaces with hyphens.
//
// Ref: https://github.com/gjtorikian/html-pipeline/blob/main/lib/html/pipeline/toc_filter.rb
func GitHubFlavoredMarkdown(heading string) string {
	heading = strings.ToLower(strings.TrimSpace(heading))
	heading = gfmPunctuationRegexp.ReplaceAllString(heading, "")
	return strings.ReplaceAll(heading, " ", "-")
}

// An AnchorFunc is a function that converts raw header text into an anchor that is appropriate
// for use in a URL.
type AnchorFunc func(heading string) (anchor string)

// An IndexOption affects the behavior of the Index function.
type IndexOption func(i *indexer)

// WithAnchors configures the AnchorFunc used by the indexer to convert heading text to anchors.
func WithAnchors(anchors AnchorFunc) IndexOption {
	return func(i *indexer) {
		i.anchorFunc = anchors
	}
}

type indexer struct {
	anchorFunc AnchorFunc

	sectionStack []*Section
	anchors      map[string][]*Section
}

func (i *indexer) heading(text *spanned.Text, span spanned.Span, level int) {
	newSection := &Section{
		Level:   level,
		Anchor:  i.anchorFunc(text.String()[span.Start:span.End]),
		Heading: span,
		Start:   span.Start,
		End:     text.Len(),
	}
	i.anchors[newSection.Anchor] = append(i.anchors[newSection.Anchor], newSection)

	currentSection := i.sectionStack[len(i.sectionStack)-1]
	for level <= currentSection.Level {
		currentSection.End = span.Start

		i.sectionStack = i.sectionStack[:len(i.sectionStack)-1]
		currentSection = i.sectionStack[len(i.sectionStack)-1]
	}
	parent := currentSection

	parent.Subsections = append(parent.Subsections, newSection)
	i.sectionStack = append(i.sectionStack, newSection)
}

// Index walks the headings of a text, converts the text of each heading to an anchor, and returns a
// DocumentIndex that maps from anchors to lists of sections. Headings are converted to
// GitHub Flavored Markdown anchors by default. Each section begins with its heading and ends where the
// next heading of the same or a higher level begins.
func Index(text *spanned.Text, options ...IndexOption) *DocumentIndex {
	indexer := &indexer{
		anchorFunc:   GitHubFlavoredMarkdown,
		sectionStack: []*Section{{Start: 0, End: text.Len()}},
		anchors:      map[string][]*Section{},
	}
	for _, o := range options {
		o(indexer)
	}

	for _, span := range text.SpansOf(spanned.KindHeading) {
		indexer.heading(text, span, span.Style.(spanned.Heading).Level)
	}

	return &DocumentIndex{
		toc:     indexer.sectionStack[0],
		anchors: indexer.anchors,
	}
}

// A Section represents the text under a heading (or the start of the document).
type Section struct {
	Level  int
	Anchor string

	// The heading span. The zero span for the root section.
	Heading spanned.Span

	// The byte range of the section. Start is inclusive; End is exclusive.
	Start int
	End   int

	Subsections []*Section
}

// Contains returns true if the given byte offset is contained within the section.
func (s *Section) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// A DocumentIndex maps from anchors to Sections.
type DocumentIndex struct {
	toc     *Section
	anchors map[string][]*Section
}

// TableOfContents returns the root of the document's section tree.
func (index *DocumentIndex) TableOfContents() *Section {
	return index.toc
}

// Lookup returns the list of sections with the given anchor. Sections appear in the list in
// the same order in which they appear in the text.
func (index *DocumentIndex) Lookup(anchor string) ([]*Section, bool) {
	sections, ok := index.anchors[anchor]
	return sections, ok
}

// SectionAt returns the innermost section that contains the given byte offset. Offsets before the first heading
// belong to the root section.
func (index *DocumentIndex) SectionAt(offset int) *Section {
	section := index.toc
	for {
		subsections := section.Subsections
		i := sort.Search(len(subsections), func(i int) bool { return subsections[i].End > offset })
		if i == len(subsections) || !subsections[i].Contains(offset) {
			return section
		}
		section = subsections[i]
	}
}

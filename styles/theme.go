// Package styles defines the chroma theme used to render styled text to a terminal.
package styles

import (
	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/styles"
)

// Token types for text elements that have no counterpart among chroma's own token types.
const (
	Link chroma.TokenType = 9000 + iota
	Code
	Bullet
	Quote
	Image
	TableBorder
	TableHeader
	TableRow
	TableRowAlt
)

// Default is the theme used by the renderer unless another one is configured.
var Default = styles.Register(chroma.MustNewStyle("html-textview", chroma.StyleEntries{
	chroma.Text:              "#d7d7d7",
	chroma.Error:             "#d75f5f",
	chroma.GenericDeleted:    "#d75f5f",
	chroma.GenericEmph:       "italic",
	chroma.GenericHeading:    "#d787af bold",
	chroma.GenericStrong:     "bold",
	chroma.GenericSubheading: "#d787af",
	chroma.GenericUnderline:  "underline",
	chroma.Background:        "bg:#121212",

	Link:        "#5fafd7 underline",
	Code:        "#ffaf5f",
	Bullet:      "#d7afff",
	Quote:       "#afafaf italic",
	Image:       "#87ffaf",
	TableBorder: "#5f5f87",
	TableHeader: "#d7d7d7 bold bg:#303030",
	TableRow:    "#d7d7d7",
	TableRowAlt: "#d7d7d7 bg:#1c1c1c",
}))

// Plain is a theme without colors that keeps emphasis, for terminals that do not support true color.
var Plain = styles.Register(chroma.MustNewStyle("html-textview-plain", chroma.StyleEntries{
	chroma.GenericEmph:       "italic",
	chroma.GenericHeading:    "bold",
	chroma.GenericStrong:     "bold",
	chroma.GenericSubheading: "bold",
	chroma.GenericUnderline:  "underline",

	Link:        "underline",
	Quote:       "italic",
	TableHeader: "bold",
}))

// Get returns the registered theme with the given name, or Default if there is none.
func Get(name string) *chroma.Style {
	if s, ok := styles.Registry[name]; ok {
		return s
	}
	return Default
}

package formatter

import "strings"

// Reserved element names. The tokenizer hands these to the TagHandler instead of the standard element handling.
const (
	UnorderedListTag = "htmltextview_escaped_ul_tag"
	OrderedListTag   = "htmltextview_escaped_ol_tag"
	ListItemTag      = "htmltextview_escaped_li_tag"
	AnchorTag        = "htmltextview_escaped_a_tag"
	PlaceholderTag   = "htmltextview_escaped_placeholder"
)

var tagReplacer = strings.NewReplacer(
	"<ul", "<"+UnorderedListTag,
	"</ul>", "</"+UnorderedListTag+">",
	"<ol", "<"+OrderedListTag,
	"</ol>", "</"+OrderedListTag+">",
	"<li", "<"+ListItemTag,
	"</li>", "</"+ListItemTag+">",
	"<a", "<"+AnchorTag,
	"</a>", "</"+AnchorTag+">",
)

// OverrideTags renames <ul>, <ol>, <li> and <a> to reserved names so that their handling is delegated to the
// TagHandler, and prepends an empty placeholder element.
//
// The substitution is purely textual and case-sensitive: it also rewrites matching text inside attribute values and
// comments, and the prefix forms match longer names such as <abbr> or <link>.
func OverrideTags(html string) string {
	return tagReplacer.Replace("<" + PlaceholderTag + "></" + PlaceholderTag + ">" + html)
}

// naturalTags maps reserved names back to the element names they replaced.
var naturalTags = map[string]string{
	UnorderedListTag: "ul",
	OrderedListTag:   "ol",
	ListItemTag:      "li",
	AnchorTag:        "a",
}

func naturalTag(tag string) string {
	tag = strings.ToLower(tag)
	if n, ok := naturalTags[tag]; ok {
		return n
	}
	return tag
}

package odt

import (
	"io"
	"unicode/utf8"
)

var (
	escQuot = "&#34;" // shorter than "&quot;"
	escApos = "&#39;" // shorter than "&apos;"
	escAmp  = "&amp;"
	escLT   = "&lt;"
	escGT   = "&gt;"
	escTab  = "&#x9;"
	escNL   = "&#xA;"
	escCR   = "&#xD;"
	escFFFD = "\uFFFD" // Unicode replacement character

	textSpace = "<text:s/>"
	textTab   = "<text:tab/>"
	textNL    = "<text:line-break/>"
)

// escapeText writes to w the properly escaped XML equivalent of the plain text data s. If preserveWhitespace is true,
// runs of spaces after the first are written as "<text:s/>", "\t" as "<text:tab/>", and "\n" as
// "<text:line-break/>".
func escapeText(w io.StringWriter, s string, preserveWhitespace bool) error {
	var esc string
	last := 0
	space := false
	for i := 0; i < len(s); {
		r, width := utf8.DecodeRuneInString(s[i:])
		i += width
		wasSpace := space
		space = r == ' '
		switch r {
		case '"':
			esc = escQuot
		case '\'':
			esc = escApos
		case '&':
			esc = escAmp
		case '<':
			esc = escLT
		case '>':
			esc = escGT
		case '\t':
			if preserveWhitespace {
				esc = textTab
			} else {
				esc = escTab
			}
		case '\n':
			if preserveWhitespace {
				esc = textNL
			} else {
				esc = escNL
			}
		case '\r':
			esc = escCR
		case ' ':
			if preserveWhitespace && (wasSpace || i == width) {
				esc = textSpace
				break
			}
			continue
		default:
			if !isInCharacterRange(r) || (r == 0xFFFD && width == 1) {
				esc = escFFFD
				break
			}
			continue
		}
		if _, err := w.WriteString(s[last : i-width]); err != nil {
			return err
		}
		if _, err := w.WriteString(esc); err != nil {
			return err
		}
		last = i
	}
	_, err := w.WriteString(s[last:])
	return err
}

// Decide whether the given rune is in the XML Character Range, per the Char production of
// https://www.xml.com/axml/testaxml.htm, Section 2.2 Characters.
func isInCharacterRange(r rune) (inrange bool) {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

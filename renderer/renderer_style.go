package renderer

import (
	"fmt"
	"image/color"
	"io"

	"github.com/alecthomas/chroma"

	"github.com/rohitmishra4444/html-textview/spanned"
	"github.com/rohitmishra4444/html-textview/styles"
)

// sgrState is the set of graphic rendition attributes in effect on the terminal.
type sgrState struct {
	entry   chroma.StyleEntry
	strike  bool
	reverse bool
}

func writeSGR(w io.Writer, command string) error {
	_, err := fmt.Fprintf(w, "\033[%sm", command)
	return err
}

func writeTristateSGR(w io.Writer, off, on string, value chroma.Trilean) error {
	if value == chroma.Yes {
		return writeSGR(w, on)
	}
	return writeSGR(w, off)
}

func writeFlagSGR(w io.Writer, off, on string, value bool) error {
	if value {
		return writeSGR(w, on)
	}
	return writeSGR(w, off)
}

func writeColorSGR(w io.Writer, command string, color chroma.Colour) error {
	return writeSGR(w, command+fmt.Sprintf(";2;%v;%v;%v", color.Red(), color.Green(), color.Blue()))
}

func writeDelta(w io.Writer, base, new chroma.StyleEntry) error {
	if new.IsZero() {
		// Write a reset command.
		return writeSGR(w, "0")
	}

	if new.Background.IsSet() && (base.IsZero() || new.Background != base.Background) {
		if err := writeColorSGR(w, "48", new.Background); err != nil {
			return err
		}
	}
	if new.Colour.IsSet() && (base.IsZero() || new.Colour != base.Colour) {
		if err := writeColorSGR(w, "38", new.Colour); err != nil {
			return err
		}
	}
	if base.IsZero() || new.Bold != base.Bold {
		if err := writeTristateSGR(w, "22", "1", new.Bold); err != nil {
			return err
		}
	}
	if base.IsZero() || new.Underline != base.Underline {
		if err := writeTristateSGR(w, "24", "4", new.Underline); err != nil {
			return err
		}
	}
	if base.IsZero() || new.Italic != base.Italic {
		if err := writeTristateSGR(w, "23", "3", new.Italic); err != nil {
			return err
		}
	}
	return nil
}

// writeTransition moves the terminal from the attributes in base to the attributes in new.
func writeTransition(w io.Writer, base, new sgrState) error {
	if base == new {
		return nil
	}
	if new.entry.IsZero() && !base.entry.IsZero() {
		if err := writeSGR(w, "0"); err != nil {
			return err
		}
		base = sgrState{}
	}
	if !new.entry.IsZero() {
		if err := writeDelta(w, base.entry, new.entry); err != nil {
			return err
		}
	}
	if new.strike != base.strike {
		if err := writeFlagSGR(w, "29", "9", new.strike); err != nil {
			return err
		}
	}
	if new.reverse != base.reverse {
		if err := writeFlagSGR(w, "27", "7", new.reverse); err != nil {
			return err
		}
	}
	return nil
}

// overlay applies the theme's style for token on top of base. Colors are replaced; attributes that the token's style
// leaves unset are inherited from base.
func overlay(theme *chroma.Style, base chroma.StyleEntry, token chroma.TokenType) chroma.StyleEntry {
	if theme == nil {
		return base
	}

	tokenStyle := theme.Get(token)
	if tokenStyle.IsZero() {
		return base
	}
	if tokenStyle.Bold == chroma.Pass {
		tokenStyle.Bold = base.Bold
	}
	if tokenStyle.Underline == chroma.Pass {
		tokenStyle.Underline = base.Underline
	}
	if tokenStyle.Italic == chroma.Pass {
		tokenStyle.Italic = base.Italic
	}
	return tokenStyle
}

func colour(c color.Color) chroma.Colour {
	r, g, b, _ := c.RGBA()
	return chroma.NewColour(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// styleOf computes the attributes for text covered by spans. Spans are applied from outermost to innermost.
func (r *Renderer) styleOf(spans []spanned.Span) sgrState {
	var state sgrState
	if r.theme == nil {
		return state
	}

	entry := overlay(r.theme, chroma.StyleEntry{}, chroma.Generic)
	for _, s := range spans {
		switch style := s.Style.(type) {
		case spanned.Bold:
			entry = overlay(r.theme, entry, chroma.GenericStrong)
		case spanned.Italic:
			entry = overlay(r.theme, entry, chroma.GenericEmph)
		case spanned.Underline:
			entry = overlay(r.theme, entry, chroma.GenericUnderline)
		case spanned.Strikethrough:
			entry = overlay(r.theme, entry, chroma.GenericDeleted)
			state.strike = true
		case spanned.Typeface:
			if style.Family == spanned.Monospace {
				entry = overlay(r.theme, entry, styles.Code)
			}
		case spanned.Heading:
			token := chroma.GenericHeading
			if style.Level > 2 {
				token = chroma.GenericSubheading
			}
			entry = overlay(r.theme, entry, token)
		case spanned.Quote:
			entry = overlay(r.theme, entry, styles.Quote)
		case *spanned.Link:
			entry = overlay(r.theme, entry, styles.Link)
		case *spanned.Image:
			entry = overlay(r.theme, entry, styles.Image)
		case spanned.Foreground:
			entry.Colour = colour(style.Color)
		}
	}
	state.entry = entry
	return state
}

package fromhtml

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/rohitmishra4444/html-textview/sax"
	"github.com/rohitmishra4444/html-textview/spanned"
)

var namedColors = map[string]color.RGBA{
	"aqua":      {0x00, 0xff, 0xff, 0xff},
	"black":     {0x00, 0x00, 0x00, 0xff},
	"blue":      {0x00, 0x00, 0xff, 0xff},
	"cyan":      {0x00, 0xff, 0xff, 0xff},
	"darkgray":  {0xa9, 0xa9, 0xa9, 0xff},
	"darkgrey":  {0xa9, 0xa9, 0xa9, 0xff},
	"fuchsia":   {0xff, 0x00, 0xff, 0xff},
	"gray":      {0x80, 0x80, 0x80, 0xff},
	"grey":      {0x80, 0x80, 0x80, 0xff},
	"green":     {0x00, 0x80, 0x00, 0xff},
	"lightgray": {0xd3, 0xd3, 0xd3, 0xff},
	"lightgrey": {0xd3, 0xd3, 0xd3, 0xff},
	"lime":      {0x00, 0xff, 0x00, 0xff},
	"magenta":   {0xff, 0x00, 0xff, 0xff},
	"maroon":    {0x80, 0x00, 0x00, 0xff},
	"navy":      {0x00, 0x00, 0x80, 0xff},
	"olive":     {0x80, 0x80, 0x00, 0xff},
	"purple":    {0x80, 0x00, 0x80, 0xff},
	"red":       {0xff, 0x00, 0x00, 0xff},
	"silver":    {0xc0, 0xc0, 0xc0, 0xff},
	"teal":      {0x00, 0x80, 0x80, 0xff},
	"white":     {0xff, 0xff, 0xff, 0xff},
	"yellow":    {0xff, 0xff, 0x00, 0xff},
}

// ParseColor parses an HTML color value: a #rgb or #rrggbb hex triplet, or one of the basic named colors.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, false
	}
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

func fontStyles(attrs sax.Attributes) []spanned.Style {
	var styles []spanned.Style
	if v, ok := attrs.Value("color"); ok {
		if c, ok := ParseColor(v); ok {
			styles = append(styles, spanned.Foreground{Color: c})
		}
	}
	if v, ok := attrs.Value("face"); ok && v != "" {
		styles = append(styles, spanned.Typeface{Family: v})
	}
	return styles
}

// inlineStyles understands the color and text-decoration properties of a style attribute.
func inlineStyles(attrs sax.Attributes) []spanned.Style {
	v, ok := attrs.Value("style")
	if !ok {
		return nil
	}

	var styles []spanned.Style
	for _, decl := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop, val = strings.ToLower(strings.TrimSpace(prop)), strings.TrimSpace(val)
		switch prop {
		case "color":
			if c, ok := ParseColor(val); ok {
				styles = append(styles, spanned.Foreground{Color: c})
			}
		case "text-decoration", "text-decoration-line":
			switch strings.ToLower(val) {
			case "line-through":
				styles = append(styles, spanned.Strikethrough{})
			case "underline":
				styles = append(styles, spanned.Underline{})
			}
		}
	}
	return styles
}

package font

import (
	"fmt"
	"strings"
)

var fallbackStacks = map[Category]string{
	CategorySansSerif:   `system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif`,
	CategorySerif:       `Georgia, "Times New Roman", Times, serif`,
	CategoryMonospace:   `"SF Mono", Monaco, "Cascadia Code", "Roboto Mono", Consolas, monospace`,
	CategoryDisplay:     `system-ui, sans-serif`,
	CategoryHandwriting: `"Brush Script MT", cursive`,
}

// FallbackStack returns the generic font stack for a category
func FallbackStack(c Category) string {
	if s, ok := fallbackStacks[c]; ok {
		return s
	}
	return fallbackStacks[CategorySansSerif]
}

// CSSString quotes s as a CSS string literal. Angle brackets, ampersands
// and control characters are written as hex escapes so the result is safe
// inside an HTML <style> element.
func CSSString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '<' || r == '>' || r == '&' || r < 0x20 || r == 0x7f:
			// The trailing space terminates the escape and is consumed by the parser.
			fmt.Fprintf(&b, `\%x `, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// PreviewFamily returns a CSS font-family value with category fallbacks
func PreviewFamily(f AppFont) string {
	return CSSString(f.Family) + ", " + FallbackStack(f.Category)
}

// FontFaceCSS returns an @font-face rule embedding an uploaded font with
// the full weight range.
func FontFaceCSS(f AppFont) string {
	format := f.Format
	if format == "" {
		format = FormatFromDataURL(f.URL)
	}
	return fmt.Sprintf(`@font-face {
  font-family: %s;
  src: url(%s) format(%s);
  font-weight: 100 900;
  font-style: normal;
  font-display: swap;
}`, CSSString(f.Family), CSSString(f.URL), CSSString(string(format)))
}

package catalog

import (
	"strconv"
	"strings"

	"github.com/joeblew999/fontdue/pkg/font"
)

// ParseVariants reads weight/style tokens such as "regular", "700" or
// "700italic". "regular" is weight 400, a token containing "italic" marks
// the family as having italics and contributes its leading integer as a
// weight when there is one. The result is ascending, deduplicated and never
// empty.
func ParseVariants(tokens []string) (weights []int, hasItalic bool) {
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "regular" {
			weights = append(weights, font.DefaultFontWeight)
			continue
		}
		if strings.Contains(token, "italic") {
			hasItalic = true
			token = strings.Replace(token, "italic", "", 1)
		}
		if w, ok := leadingInt(token); ok {
			weights = append(weights, w)
		}
	}
	return font.NormalizeWeights(weights), hasItalic
}

// leadingInt parses the run of digits at the start of s
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

package font

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildStylesheetURL creates the CSS URL for a catalog font
func BuildStylesheetURL(cf CatalogFont, source Source) (string, error) {
	// Example: https://fonts.googleapis.com/css2?family=Open%20Sans:wght@400;700&display=swap
	family := encodeComponent(cf.Family)

	switch source {
	case SourceGoogle:
		return fmt.Sprintf("%s?family=%s:wght@%s&display=swap", GoogleFontsAPI, family, joinWeights(cf.Weights, ";")), nil
	case SourceBunny:
		return fmt.Sprintf("%s?family=%s:wght@%s&display=swap", BunnyFontsAPI, family, joinWeights(cf.Weights, ";")), nil
	case SourceFontshare:
		return fmt.Sprintf("%s?f[]=%s@%s&display=swap", FontshareAPI, Slug(cf.Family), joinWeights(cf.Weights, ",")), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// encodeComponent escapes like a URI component: spaces become %20, not +
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func joinWeights(weights []int, sep string) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, sep)
}

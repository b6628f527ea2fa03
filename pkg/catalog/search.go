package catalog

import (
	"slices"
	"strings"

	"github.com/joeblew999/fontdue/pkg/font"
)

// CategoryAll disables category filtering
const CategoryAll = "all"

// Filters narrows a catalog search
type Filters struct {
	Category string
}

// Search returns the fonts whose name or family contains query, case
// insensitively, optionally restricted to one category. The catalog is not
// modified and relative order is preserved.
func Search(c *Catalog, query string, filters Filters) []font.CatalogFont {
	if c == nil {
		return []font.CatalogFont{}
	}

	q := strings.ToLower(query)
	out := make([]font.CatalogFont, 0, len(c.Fonts))
	for _, f := range c.Fonts {
		if q != "" &&
			!strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(f.Family), q) {
			continue
		}
		if filters.Category != "" && filters.Category != CategoryAll &&
			string(f.Category) != filters.Category {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Categories returns the distinct categories present in a catalog, sorted
func Categories(c *Catalog) []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, 0, 5)
	for _, f := range c.Fonts {
		if !slices.Contains(out, string(f.Category)) {
			out = append(out, string(f.Category))
		}
	}
	slices.Sort(out)
	return out
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/joeblew999/fontdue/pkg/font"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BunnyListAPI is the Bunny Fonts catalog endpoint
const BunnyListAPI = "https://fonts.bunny.net/list"

// BunnyFontItem is one entry of the Bunny Fonts list, keyed by font id
type BunnyFontItem struct {
	FamilyName string         `json:"familyName"`
	Category   string         `json:"category"`
	Styles     map[string]any `json:"styles"`
}

// fetchBunny downloads the full Bunny Fonts list, no key required
func (s *Store) fetchBunny(ctx context.Context) (*Catalog, error) {
	resp, err := s.get(ctx, s.bunnyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bunny: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bunny: status %s", ErrFetchFailed, resp.Status)
	}

	var data map[string]BunnyFontItem
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: bunny: parse response: %v", ErrFetchFailed, err)
	}

	return TransformBunny(data), nil
}

// TransformBunny converts the Bunny list into a catalog sorted by family
// name. Bunny has no popularity order, so popularity is the sorted position.
func TransformBunny(data map[string]BunnyFontItem) *Catalog {
	fonts := make([]font.CatalogFont, 0, len(data))
	for id, item := range data {
		styles := make([]string, 0, len(item.Styles))
		for style := range item.Styles {
			styles = append(styles, style)
		}
		weights, hasItalic := ParseVariants(styles)
		fonts = append(fonts, font.CatalogFont{
			ID:        id,
			Name:      item.FamilyName,
			Family:    item.FamilyName,
			Category:  categoryOrDefault(item.Category),
			Weights:   weights,
			HasItalic: hasItalic,
		})
	}

	c := collate.New(language.Und)
	slices.SortFunc(fonts, func(a, b font.CatalogFont) int {
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	for i := range fonts {
		fonts[i].Popularity = i + 1
	}

	return &Catalog{
		Version:    "1.0.0",
		Source:     font.SourceBunny,
		SourceName: "Bunny Fonts",
		SourceURL:  "https://fonts.bunny.net",
		Fonts:      fonts,
	}
}

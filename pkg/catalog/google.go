package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joeblew999/fontdue/pkg/font"
)

// GoogleWebFontsAPI is the Google Fonts Developer API endpoint
const GoogleWebFontsAPI = "https://www.googleapis.com/webfonts/v1/webfonts"

// GoogleFontsResponse represents the Google Fonts Web API response
type GoogleFontsResponse struct {
	Items []GoogleFontItem `json:"items"`
}

// GoogleFontItem is one family of the Google Fonts Web API response
type GoogleFontItem struct {
	Family   string   `json:"family"`
	Category string   `json:"category"`
	Variants []string `json:"variants"`
}

// fetchGoogle downloads the full Google Fonts list sorted by popularity
func (s *Store) fetchGoogle(ctx context.Context, apiKey string) (*Catalog, error) {
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("sort", "popularity")

	resp, err := s.get(ctx, s.googleURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: google: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if isKeyRejection(resp) {
			return nil, ErrCredentialInvalid
		}
		return nil, fmt.Errorf("%w: google: status %s", ErrFetchFailed, resp.Status)
	}

	var fontsResponse GoogleFontsResponse
	if err := json.NewDecoder(resp.Body).Decode(&fontsResponse); err != nil {
		return nil, fmt.Errorf("%w: google: parse response: %v", ErrFetchFailed, err)
	}

	return TransformGoogle(fontsResponse), nil
}

// isKeyRejection reports a permission failure, or the 400 Google answers
// with for a malformed key.
func isKeyRejection(resp *http.Response) bool {
	if resp.StatusCode == http.StatusForbidden {
		return true
	}
	if resp.StatusCode != http.StatusBadRequest {
		return false
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return strings.Contains(string(body), "API key")
}

// TransformGoogle converts a Web API response into a catalog. The API is
// asked for popularity order, so popularity follows input order.
func TransformGoogle(data GoogleFontsResponse) *Catalog {
	fonts := make([]font.CatalogFont, 0, len(data.Items))
	for i, item := range data.Items {
		weights, hasItalic := ParseVariants(item.Variants)
		fonts = append(fonts, font.CatalogFont{
			ID:         font.Slug(item.Family),
			Name:       item.Family,
			Family:     item.Family,
			Category:   categoryOrDefault(item.Category),
			Weights:    weights,
			HasItalic:  hasItalic,
			Popularity: i + 1,
		})
	}

	return &Catalog{
		Version:    "1.0.0",
		Source:     font.SourceGoogle,
		SourceName: "Google Fonts",
		SourceURL:  "https://fonts.google.com",
		Fonts:      fonts,
	}
}

func categoryOrDefault(c string) font.Category {
	if c == "" {
		return font.CategorySansSerif
	}
	return font.Category(c)
}

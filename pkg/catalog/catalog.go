// Package catalog loads, transforms, caches and searches font catalogs
// published by Google Fonts, Bunny Fonts and Fontshare.
package catalog

import (
	"errors"
	"fmt"

	"github.com/joeblew999/fontdue/pkg/font"
)

var (
	// ErrCredentialMissing is returned when a Google catalog is requested without an API key
	ErrCredentialMissing = errors.New("google fonts api key required, get one at https://console.cloud.google.com/apis/credentials")
	// ErrCredentialInvalid is returned when the upstream rejects the API key
	ErrCredentialInvalid = errors.New("invalid api key, check your google cloud console settings")
	// ErrUnsupported is returned for sources without a full catalog
	ErrUnsupported = errors.New("full catalog not available for source")
	// ErrFetchFailed wraps transport and decoding failures of remote catalogs
	ErrFetchFailed = errors.New("failed to fetch catalog")
	// ErrFontNotFound is returned when a catalog id is in no cached catalog
	ErrFontNotFound = errors.New("font not found in catalog")
)

// IsPermanent reports whether retrying a full catalog fetch cannot succeed
// without the caller changing something first.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrCredentialMissing) ||
		errors.Is(err, ErrCredentialInvalid) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, font.ErrUnknownSource)
}

// Tier distinguishes the shipped curated catalog from the remote full one
type Tier int

const (
	TierCurated Tier = iota
	TierFull
)

func (t Tier) String() string {
	if t == TierFull {
		return "full"
	}
	return "curated"
}

// ParseTier maps "full" to TierFull and anything else to TierCurated
func ParseTier(s string) Tier {
	if s == "full" {
		return TierFull
	}
	return TierCurated
}

// Catalog is a list of fonts published by one source
type Catalog struct {
	Version    string             `json:"version"`
	Source     font.Source        `json:"source"`
	SourceName string             `json:"sourceName"`
	SourceURL  string             `json:"sourceUrl"`
	Fonts      []font.CatalogFont `json:"fonts"`
}

// Empty returns the catalog handed out when a curated catalog cannot be read
func Empty(source font.Source) *Catalog {
	return &Catalog{
		Source:     source,
		SourceName: string(source),
		Fonts:      []font.CatalogFont{},
	}
}

// Find returns the font with the given catalog id
func (c *Catalog) Find(id string) (font.CatalogFont, bool) {
	for _, f := range c.Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return font.CatalogFont{}, false
}

// SupportsFull reports whether the source publishes a full catalog
func SupportsFull(source font.Source) bool {
	return source == font.SourceGoogle || source == font.SourceBunny
}

// CuratedPath is the resource path of a curated catalog
func CuratedPath(source font.Source) string {
	return fmt.Sprintf("%s-curated.json", source)
}

// StarterPath is the resource path of the starter font configuration
const StarterPath = "starter-fonts.json"

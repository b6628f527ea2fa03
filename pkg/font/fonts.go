package font

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrUnknownSource is returned for a source tag outside the known set
var ErrUnknownSource = errors.New("unknown font source")

// Source identifies where a font comes from
type Source string

const (
	SourceGoogle    Source = "google"
	SourceBunny     Source = "bunny"
	SourceFontshare Source = "fontshare"
	SourceCDN       Source = "cdn"
	SourceSystem    Source = "system"
	SourceLocal     Source = "local"
	SourceUpload    Source = "upload"
)

// CatalogSources are the sources that publish catalogs, in display order
var CatalogSources = []Source{SourceGoogle, SourceBunny, SourceFontshare}

// ParseSource validates a source tag
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceGoogle, SourceBunny, SourceFontshare, SourceCDN, SourceSystem, SourceLocal, SourceUpload:
		return src, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// IsCatalog reports whether the source publishes a catalog
func (s Source) IsCatalog() bool {
	return slices.Contains(CatalogSources, s)
}

// Category is the broad classification of a typeface
type Category string

const (
	CategorySansSerif   Category = "sans-serif"
	CategorySerif       Category = "serif"
	CategoryMonospace   Category = "monospace"
	CategoryDisplay     Category = "display"
	CategoryHandwriting Category = "handwriting"
)

// Format is the binary container of an uploaded font
type Format string

const (
	FormatWOFF2    Format = "woff2"
	FormatWOFF     Format = "woff"
	FormatOpenType Format = "opentype"
	FormatTrueType Format = "truetype"
	FormatEOT      Format = "embedded-opentype"
)

// CatalogFont is an immutable entry of a font catalog
type CatalogFont struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Family     string   `json:"family"`
	Category   Category `json:"category"`
	Weights    []int    `json:"weights"`
	HasItalic  bool     `json:"hasItalic"`
	Popularity int      `json:"popularity"`
}

// AppFont is a font in the user's collection
type AppFont struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Family    string    `json:"family"`
	Source    Source    `json:"source"`
	URL       string    `json:"url,omitempty"` // stylesheet or data URL; empty for local/system
	Format    Format    `json:"format,omitempty"`
	Weights   []int     `json:"weights"`
	HasItalic bool      `json:"hasItalic"`
	Category  Category  `json:"category"`
	Favorite  bool      `json:"favorite"`
	DateAdded time.Time `json:"dateAdded"`
}

// NormalizeWeights returns the weights deduplicated and ascending,
// defaulting to the regular weight when empty.
func NormalizeWeights(weights []int) []int {
	out := slices.Clone(weights)
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return []int{DefaultFontWeight}
	}
	return out
}

// FromCatalog converts a catalog entry into a collection font
func FromCatalog(cf CatalogFont, source Source) (AppFont, error) {
	url, err := BuildStylesheetURL(cf, source)
	if err != nil {
		return AppFont{}, err
	}
	category := cf.Category
	if category == "" {
		category = CategorySansSerif
	}
	return AppFont{
		ID:        CatalogFontID(source, cf.ID),
		Name:      cf.Name,
		Family:    cf.Family,
		Source:    source,
		URL:       url,
		Weights:   slices.Clone(cf.Weights),
		HasItalic: cf.HasItalic,
		Category:  category,
		Favorite:  false,
		DateAdded: time.Now(),
	}, nil
}

// CatalogFontID returns the collection id of a catalog-derived font
func CatalogFontID(source Source, catalogID string) string {
	return string(source) + "-" + catalogID
}

// NewQuickCatalogFont builds a catalog font from just a family name, for
// sources addressable by family without consulting a catalog.
func NewQuickCatalogFont(source Source, family string, weights []int) (AppFont, error) {
	if len(weights) == 0 {
		weights = DefaultQuickWeights
	}
	cf := CatalogFont{
		ID:       Slug(family),
		Name:     family,
		Family:   family,
		Category: CategorySansSerif,
		Weights:  NormalizeWeights(weights),
	}
	return FromCatalog(cf, source)
}

// NewCDNFont builds a font served from an arbitrary stylesheet URL
func NewCDNFont(name, family, url string) AppFont {
	return AppFont{
		ID:        NewID(name),
		Name:      name,
		Family:    family,
		Source:    SourceCDN,
		URL:       url,
		Weights:   []int{DefaultFontWeight},
		HasItalic: false,
		Category:  CategorySansSerif,
		DateAdded: time.Now(),
	}
}

// LocalDescriptor describes a font installed on the host
type LocalDescriptor struct {
	Family         string `json:"family"`
	FullName       string `json:"fullName,omitempty"`
	PostscriptName string `json:"postscriptName,omitempty"`
	Style          string `json:"style,omitempty"`
}

// NewLocalFont builds a font resolved by the host's installed fonts.
// No metadata is probed, so full style ranges are assumed.
func NewLocalFont(d LocalDescriptor) AppFont {
	name := d.FullName
	if name == "" {
		name = d.Family
	}
	return AppFont{
		ID:        NewID(d.Family),
		Name:      name,
		Family:    d.Family,
		Source:    SourceLocal,
		Weights:   []int{DefaultFontWeight},
		HasItalic: true,
		Category:  CategorySansSerif,
		DateAdded: time.Now(),
	}
}

// NewSystemFont is NewLocalFont tagged with the system source
func NewSystemFont(family string) AppFont {
	f := NewLocalFont(LocalDescriptor{Family: family})
	f.Source = SourceSystem
	return f
}

// NewUploadedFont builds a font embedded as a data URL
func NewUploadedFont(name, family, dataURL string, format Format) AppFont {
	return AppFont{
		ID:        NewID(name),
		Name:      name,
		Family:    family,
		Source:    SourceUpload,
		URL:       dataURL,
		Format:    format,
		Weights:   []int{DefaultFontWeight},
		HasItalic: false,
		Category:  CategorySansSerif,
		DateAdded: time.Now(),
	}
}

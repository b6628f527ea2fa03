// Package collection is the persisted CRUD layer over a user's fonts and
// settings. Every write is a read-modify-write of one whole Document.
package collection

import (
	"context"
	"errors"

	"github.com/joeblew999/fontdue/pkg/font"
)

var (
	// ErrNoCollection is returned when nothing has been persisted yet
	ErrNoCollection = errors.New("no collection")
	// ErrInvalidCollection is returned for import payloads without a font list
	ErrInvalidCollection = errors.New("invalid collection format")
)

// Theme preferences
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Settings are the user preferences stored next to the fonts
type Settings struct {
	Theme            string  `json:"theme"`
	SelectedFontID   string  `json:"selectedFontId"`
	SidebarCollapsed bool    `json:"sidebarCollapsed"`
	GoogleAPIKey     *string `json:"googleApiKey"`
}

// DefaultSettings returns the settings of a fresh collection
func DefaultSettings() Settings {
	return Settings{
		Theme:          ThemeDark,
		SelectedFontID: font.DefaultFontID,
	}
}

// APIKey returns the Google Fonts key or "" when unset
func (s Settings) APIKey() string {
	if s.GoogleAPIKey == nil {
		return ""
	}
	return *s.GoogleAPIKey
}

// Document is the persisted root
type Document struct {
	Fonts    []font.AppFont `json:"fonts"`
	Settings Settings       `json:"settings"`
}

// Store persists one Document
type Store interface {
	// Load returns nil and no error when nothing is persisted yet
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// StarterSource provides the fonts seeded into new collections
type StarterSource interface {
	StarterFonts(ctx context.Context) ([]font.AppFont, error)
}

// Groups is the collection split for display. A font can appear in
// Favorites and in its source group.
type Groups struct {
	Favorites []font.AppFont `json:"favorites"`
	Google    []font.AppFont `json:"google"`
	Bunny     []font.AppFont `json:"bunny"`
	Fontshare []font.AppFont `json:"fontshare"`
	CDN       []font.AppFont `json:"cdn"`
	System    []font.AppFont `json:"system"`
	Upload    []font.AppFont `json:"upload"`
}

// FontUpdate is a shallow merge onto a stored font. Nil fields are left
// untouched. The id cannot be changed.
type FontUpdate struct {
	Name      *string        `json:"name,omitempty"`
	Family    *string        `json:"family,omitempty"`
	URL       *string        `json:"url,omitempty"`
	Weights   []int          `json:"weights,omitempty"`
	HasItalic *bool          `json:"hasItalic,omitempty"`
	Category  *font.Category `json:"category,omitempty"`
	Favorite  *bool          `json:"favorite,omitempty"`
}

func (u FontUpdate) apply(f *font.AppFont) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Family != nil {
		f.Family = *u.Family
	}
	if u.URL != nil {
		f.URL = *u.URL
	}
	if u.Weights != nil {
		f.Weights = font.NormalizeWeights(u.Weights)
	}
	if u.HasItalic != nil {
		f.HasItalic = *u.HasItalic
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
	if u.Favorite != nil {
		f.Favorite = *u.Favorite
	}
}

// SettingsUpdate is a shallow merge onto the stored settings. A non-nil
// empty GoogleAPIKey clears the key.
type SettingsUpdate struct {
	Theme            *string `json:"theme,omitempty"`
	SelectedFontID   *string `json:"selectedFontId,omitempty"`
	SidebarCollapsed *bool   `json:"sidebarCollapsed,omitempty"`
	GoogleAPIKey     *string `json:"googleApiKey,omitempty"`
}

func (u SettingsUpdate) apply(s *Settings) {
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	if u.SelectedFontID != nil {
		s.SelectedFontID = *u.SelectedFontID
	}
	if u.SidebarCollapsed != nil {
		s.SidebarCollapsed = *u.SidebarCollapsed
	}
	if u.GoogleAPIKey != nil {
		if *u.GoogleAPIKey == "" {
			s.GoogleAPIKey = nil
		} else {
			key := *u.GoogleAPIKey
			s.GoogleAPIKey = &key
		}
	}
}

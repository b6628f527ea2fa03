package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
)

// Manager is the authoritative CRUD layer over a persisted collection.
// Not-found and duplicate conditions are reported as false, never as
// errors; errors are reserved for the store and for validation.
type Manager struct {
	mu       sync.Mutex
	store    Store
	starters StarterSource
	ids      *font.IDGenerator
	now      func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used for dateAdded and generated ids
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
		m.ids = font.NewIDGenerator(now)
	}
}

// NewManager creates a manager over store, seeding new collections from
// starters
func NewManager(store Store, starters StarterSource, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		starters: starters,
		ids:      font.NewIDGenerator(nil),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize seeds the collection with starter fonts when nothing is
// persisted or the font list is empty. Failing to resolve starters yields
// an empty collection rather than an error. Existing settings are kept.
func (m *Manager) Initialize(ctx context.Context) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc != nil && len(doc.Fonts) > 0 {
		return doc, nil
	}

	settings := DefaultSettings()
	if doc != nil {
		settings = doc.Settings
	}

	log.Info("First run: loading starter fonts from catalog")
	fonts, err := m.starters.StarterFonts(ctx)
	if err != nil {
		log.Error("Failed to load starter fonts", "error", err)
		fonts = []font.AppFont{}
	}
	log.Info("Loaded starter fonts", "count", len(fonts))

	doc = &Document{Fonts: fonts, Settings: settings}
	if err := m.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetAllFonts returns the fonts in insertion order
func (m *Manager) GetAllFonts(ctx context.Context) ([]font.AppFont, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil || doc == nil {
		return []font.AppFont{}, err
	}
	return doc.Fonts, nil
}

// Grouped returns the fonts split by source, system and local sharing a group
func (m *Manager) Grouped(ctx context.Context) (Groups, error) {
	fonts, err := m.GetAllFonts(ctx)
	if err != nil {
		return Groups{}, err
	}

	g := Groups{
		Favorites: []font.AppFont{},
		Google:    []font.AppFont{},
		Bunny:     []font.AppFont{},
		Fontshare: []font.AppFont{},
		CDN:       []font.AppFont{},
		System:    []font.AppFont{},
		Upload:    []font.AppFont{},
	}
	for _, f := range fonts {
		if f.Favorite {
			g.Favorites = append(g.Favorites, f)
		}
		switch f.Source {
		case font.SourceGoogle:
			g.Google = append(g.Google, f)
		case font.SourceBunny:
			g.Bunny = append(g.Bunny, f)
		case font.SourceFontshare:
			g.Fontshare = append(g.Fontshare, f)
		case font.SourceCDN:
			g.CDN = append(g.CDN, f)
		case font.SourceSystem, font.SourceLocal:
			g.System = append(g.System, f)
		case font.SourceUpload:
			g.Upload = append(g.Upload, f)
		}
	}
	return g, nil
}

// GetFont returns the font with the given id
func (m *Manager) GetFont(ctx context.Context, id string) (font.AppFont, bool, error) {
	fonts, err := m.GetAllFonts(ctx)
	if err != nil {
		return font.AppFont{}, false, err
	}
	f, ok := find(fonts, id)
	return f, ok, nil
}

// HasFont reports whether id is in the collection
func (m *Manager) HasFont(ctx context.Context, id string) (bool, error) {
	_, ok, err := m.GetFont(ctx, id)
	return ok, err
}

// Search matches query against name or family, case-insensitively
func (m *Manager) Search(ctx context.Context, query string) ([]font.AppFont, error) {
	fonts, err := m.GetAllFonts(ctx)
	if err != nil || query == "" {
		return fonts, err
	}

	q := strings.ToLower(query)
	out := make([]font.AppFont, 0, len(fonts))
	for _, f := range fonts {
		if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Family), q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// AddFont appends f, generating an id from its name when empty. It returns
// false when the id is already taken or no collection exists.
func (m *Manager) AddFont(ctx context.Context, f font.AppFont) (font.AppFont, bool, error) {
	if f.ID == "" {
		f.ID = m.ids.Generate(f.Name)
	}
	if f.DateAdded.IsZero() {
		f.DateAdded = m.now()
	}
	if len(f.Weights) == 0 {
		f.Weights = []int{font.DefaultFontWeight}
	}

	ok, err := m.mutate(ctx, func(doc *Document) bool {
		if slices.ContainsFunc(doc.Fonts, func(x font.AppFont) bool { return x.ID == f.ID }) {
			log.Warn("Font with this ID already exists", "id", f.ID)
			return false
		}
		doc.Fonts = append(doc.Fonts, f)
		return true
	})
	return f, ok, err
}

// UpdateFont merges update into the font with the given id
func (m *Manager) UpdateFont(ctx context.Context, id string, update FontUpdate) (bool, error) {
	return m.mutate(ctx, func(doc *Document) bool {
		i := index(doc.Fonts, id)
		if i < 0 {
			return false
		}
		update.apply(&doc.Fonts[i])
		return true
	})
}

// DeleteFont removes the font with the given id
func (m *Manager) DeleteFont(ctx context.Context, id string) (bool, error) {
	return m.mutate(ctx, func(doc *Document) bool {
		i := index(doc.Fonts, id)
		if i < 0 {
			return false
		}
		doc.Fonts = slices.Delete(doc.Fonts, i, i+1)
		return true
	})
}

// ToggleFavorite flips the favorite flag of a font
func (m *Manager) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	return m.mutate(ctx, func(doc *Document) bool {
		i := index(doc.Fonts, id)
		if i < 0 {
			return false
		}
		doc.Fonts[i].Favorite = !doc.Fonts[i].Favorite
		return true
	})
}

// Settings returns the stored settings, or the defaults when nothing is
// persisted
func (m *Manager) Settings(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	if doc == nil {
		return DefaultSettings(), nil
	}
	return doc.Settings, nil
}

// UpdateSettings merges update into the stored settings
func (m *Manager) UpdateSettings(ctx context.Context, update SettingsUpdate) (bool, error) {
	return m.mutate(ctx, func(doc *Document) bool {
		update.apply(&doc.Settings)
		return true
	})
}

// SetSelectedFont records id as the selected font. The id is not checked
// against the collection; SelectedFont falls back when it is missing.
func (m *Manager) SetSelectedFont(ctx context.Context, id string) (bool, error) {
	return m.UpdateSettings(ctx, SettingsUpdate{SelectedFontID: &id})
}

// SelectedFont returns the selected font, falling back to the default
// starter font, then to the first font. It returns false only when the
// collection is empty.
func (m *Manager) SelectedFont(ctx context.Context) (font.AppFont, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil || doc == nil {
		return font.AppFont{}, false, err
	}

	if f, ok := find(doc.Fonts, doc.Settings.SelectedFontID); ok {
		return f, true, nil
	}
	if f, ok := find(doc.Fonts, font.DefaultFontID); ok {
		return f, true, nil
	}
	if len(doc.Fonts) > 0 {
		return doc.Fonts[0], true, nil
	}
	return font.AppFont{}, false, nil
}

// Export serializes the persisted document as indented JSON
func (m *Manager) Export(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNoCollection
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import replaces the whole document with data. The payload must carry a
// "fonts" array of fonts with unique, non-empty ids; anything else fails
// with ErrInvalidCollection and leaves the stored document untouched.
func (m *Manager) Import(ctx context.Context, data []byte) error {
	doc, err := ParseDocument(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Save(ctx, doc)
}

// ParseDocument validates and decodes an exported collection. Missing
// settings fall back to the defaults.
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	fonts, ok := raw["fonts"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(fonts), []byte("[")) {
		return nil, fmt.Errorf("%w: fonts must be an array", ErrInvalidCollection)
	}

	doc := &Document{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}

	seen := make(map[string]struct{}, len(doc.Fonts))
	for _, f := range doc.Fonts {
		if f.ID == "" {
			return nil, fmt.Errorf("%w: font %q has no id", ErrInvalidCollection, f.Name)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate font id %q", ErrInvalidCollection, f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return doc, nil
}

// ResetToDefaults replaces the document with freshly resolved starter
// fonts and default settings. Nothing is written when starters fail.
func (m *Manager) ResetToDefaults(ctx context.Context) error {
	fonts, err := m.starters.StarterFonts(ctx)
	if err != nil {
		return fmt.Errorf("reset to defaults: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Save(ctx, &Document{Fonts: fonts, Settings: DefaultSettings()})
}

// ClearAllFonts empties the font list and keeps the settings
func (m *Manager) ClearAllFonts(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	settings := DefaultSettings()
	if doc != nil {
		settings = doc.Settings
	}
	return m.store.Save(ctx, &Document{Fonts: []font.AppFont{}, Settings: settings})
}

// mutate runs fn against the stored document and saves it when fn
// reports a change. It returns false when no document exists.
func (m *Manager) mutate(ctx context.Context, fn func(doc *Document) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.store.Load(ctx)
	if err != nil || doc == nil {
		return false, err
	}
	if !fn(doc) {
		return false, nil
	}
	if err := m.store.Save(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

func index(fonts []font.AppFont, id string) int {
	return slices.IndexFunc(fonts, func(f font.AppFont) bool { return f.ID == id })
}

func find(fonts []font.AppFont, id string) (font.AppFont, bool) {
	if i := index(fonts, id); i >= 0 {
		return fonts[i], true
	}
	return font.AppFont{}, false
}

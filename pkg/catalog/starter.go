package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
)

// StarterEntry references a curated font seeded into new collections
type StarterEntry struct {
	Source   font.Source `json:"source"`
	ID       string      `json:"id"`
	Favorite bool        `json:"favorite,omitempty"`
}

// StarterConfig is the shape of the starter font resource
type StarterConfig struct {
	Fonts []StarterEntry `json:"fonts"`
}

// LoadStarterConfig reads the starter font configuration. A missing or
// malformed resource yields an empty configuration.
func (s *Store) LoadStarterConfig() StarterConfig {
	cfg, err := s.readStarterConfig()
	if err != nil {
		log.Error("Failed to load starter fonts config", "error", err)
		return StarterConfig{Fonts: []StarterEntry{}}
	}
	return cfg
}

func (s *Store) readStarterConfig() (StarterConfig, error) {
	var cfg StarterConfig
	data, err := fs.ReadFile(s.resources, StarterPath)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", StarterPath, err)
	}
	return cfg, nil
}

// StarterFonts resolves the starter configuration against the curated
// catalogs. Entries missing from their catalog are skipped.
func (s *Store) StarterFonts(ctx context.Context) ([]font.AppFont, error) {
	cfg := s.LoadStarterConfig()

	catalogs := make(map[font.Source]*Catalog, len(font.CatalogSources))
	for _, source := range font.CatalogSources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		catalogs[source] = s.LoadCurated(source)
	}

	fonts := make([]font.AppFont, 0, len(cfg.Fonts))
	for _, entry := range cfg.Fonts {
		c, ok := catalogs[entry.Source]
		if !ok {
			continue
		}

		cf, found := c.Find(entry.ID)
		if !found {
			log.Warn("Starter font not found", "id", entry.ID, "source", entry.Source)
			continue
		}

		f, err := font.FromCatalog(cf, entry.Source)
		if err != nil {
			log.Warn("Starter font skipped", "id", entry.ID, "source", entry.Source, "error", err)
			continue
		}
		f.Favorite = entry.Favorite
		fonts = append(fonts, f)
	}

	return fonts, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// CatalogInfo summarizes a persisted full catalog
type CatalogInfo struct {
	Source    string    `db:"source" json:"source"`
	FontCount int       `db:"font_count" json:"fontCount"`
	FetchedAt time.Time `db:"fetched_at" json:"fetchedAt"`
}

// CatalogStore persists full catalogs in the catalogs table
type CatalogStore struct {
	conn sqlx.SqlConn
}

// NewCatalogStore creates a catalog persister over conn
func NewCatalogStore(conn sqlx.SqlConn) *CatalogStore {
	return &CatalogStore{conn: conn}
}

// SaveCatalog upserts the catalog of its source
func (s *CatalogStore) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	_, err = s.conn.ExecCtx(ctx, `
		INSERT INTO catalogs (source, body, font_count, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			body = excluded.body, font_count = excluded.font_count, fetched_at = excluded.fetched_at
	`, string(c.Source), string(body), len(c.Fonts), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save %s catalog: %w", c.Source, err)
	}
	return nil
}

// LoadCatalogs returns every persisted catalog
func (s *CatalogStore) LoadCatalogs(ctx context.Context) ([]*catalog.Catalog, error) {
	var bodies []string
	if err := s.conn.QueryRowsCtx(ctx, &bodies, "SELECT body FROM catalogs ORDER BY source"); err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}

	catalogs := make([]*catalog.Catalog, 0, len(bodies))
	for _, body := range bodies {
		var c catalog.Catalog
		if err := json.Unmarshal([]byte(body), &c); err != nil {
			return nil, fmt.Errorf("parse persisted catalog: %w", err)
		}
		catalogs = append(catalogs, &c)
	}
	return catalogs, nil
}

// List summarizes the persisted catalogs
func (s *CatalogStore) List(ctx context.Context) ([]CatalogInfo, error) {
	var infos []CatalogInfo
	err := s.conn.QueryRowsCtx(ctx, &infos, "SELECT source, font_count, fetched_at FROM catalogs ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	return infos, nil
}

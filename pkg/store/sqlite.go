package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// DefaultDocumentKey is the row holding the collection document
const DefaultDocumentKey = "fontdue"

// SQLiteStore keeps the collection document as a keyed JSON blob in the
// documents table
type SQLiteStore struct {
	conn sqlx.SqlConn
	key  string
}

// NewSQLiteStore creates a document store over conn using key
func NewSQLiteStore(conn sqlx.SqlConn, key string) *SQLiteStore {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &SQLiteStore{conn: conn, key: key}
}

func (s *SQLiteStore) Load(ctx context.Context) (*collection.Document, error) {
	var body string
	err := s.conn.QueryRowCtx(ctx, &body, "SELECT body FROM documents WHERE key = ?", s.key)
	if errors.Is(err, sqlx.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", s.key, err)
	}

	var doc collection.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", s.key, err)
	}
	return &doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, doc *collection.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.conn.ExecCtx(ctx, `
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, s.key, string(body))
	if err != nil {
		return fmt.Errorf("save document %s: %w", s.key, err)
	}
	return nil
}

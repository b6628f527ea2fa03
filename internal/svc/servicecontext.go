package svc

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joeblew999/fontdue/internal/config"
	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/db"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/joeblew999/fontdue/pkg/queue"
	"github.com/joeblew999/fontdue/pkg/refresh"
	"github.com/joeblew999/fontdue/pkg/store"
	"github.com/zeromicro/go-zero/core/logx"

	pkgconfig "github.com/joeblew999/fontdue/pkg/config"
)

// RefreshQueueName is the goqite queue holding catalog refresh jobs.
const RefreshQueueName = "catalog-refresh"

type ServiceContext struct {
	Config     config.Config
	Catalogs   *catalog.Store
	Persisted  *store.CatalogStore
	Collection *collection.Manager
	Document   *loader.Document
	LocalFonts *loader.SystemFonts
	Loader     *loader.Lifecycle
	Queue      *queue.Queue
	Refresh    *refresh.Engine
}

// NewServiceContext wires every service over an opened database.
func NewServiceContext(c config.Config, database *db.DB) (*ServiceContext, error) {
	timeout, err := parseDuration("Loader.Timeout", c.Loader.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	refreshCfg, err := refreshConfig(c.Refresh)
	if err != nil {
		return nil, err
	}

	conn := database.SqlConn()
	persisted := store.NewCatalogStore(conn)

	catalogOpts := []catalog.Option{
		catalog.WithPersister(persisted),
		catalog.WithRateLimit(c.Catalogs.FetchRateLimit),
	}
	if c.Catalogs.Dir != "" {
		catalogOpts = append(catalogOpts, catalog.WithResources(os.DirFS(c.Catalogs.Dir)))
	}
	catalogs := catalog.NewStore(catalogOpts...)

	var docStore collection.Store
	switch c.Storage.Driver {
	case "file":
		docStore = store.NewFileStoreAt(c.Storage.Path)
	default:
		docStore = store.NewSQLiteStore(conn, store.DefaultDocumentKey)
	}

	docOpts := []loader.DocumentOption{
		loader.WithHTTPClient(&http.Client{Timeout: timeout}),
		loader.WithRateLimit(c.Loader.RateLimit),
	}
	if !c.Loader.Verify {
		docOpts = append(docOpts, loader.WithoutVerification())
	}
	document := loader.NewDocument(docOpts...)

	cacheDir := c.Loader.CacheDir
	if cacheDir == "" {
		cacheDir = pkgconfig.GetFontCachePath()
	}
	local := loader.NewSystemFonts(cacheDir)

	q, err := queue.NewQueue(database.DB, conn, RefreshQueueName)
	if err != nil {
		return nil, fmt.Errorf("create refresh queue: %w", err)
	}
	events, err := queue.NewEventRecorder(conn)
	if err != nil {
		return nil, fmt.Errorf("create event recorder: %w", err)
	}
	q.Events = events

	svcCtx := &ServiceContext{
		Config:     c,
		Catalogs:   catalogs,
		Persisted:  persisted,
		Collection: collection.NewManager(docStore, catalogs),
		Document:   document,
		LocalFonts: local,
		Loader:     loader.New(document, local),
		Queue:      q,
	}
	svcCtx.Refresh = refresh.NewEngine(q, catalogs, svcCtx.APIKey, refreshCfg)

	return svcCtx, nil
}

// Bootstrap restores persisted catalogs and makes sure a collection exists.
func (s *ServiceContext) Bootstrap(ctx context.Context) error {
	if s.Config.Catalogs.RestorePersisted {
		if err := s.Catalogs.Restore(ctx); err != nil {
			logx.WithContext(ctx).Errorf("Restoring persisted catalogs: %v", err)
		}
	}

	doc, err := s.Collection.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize collection: %w", err)
	}

	if key := s.Config.Google.APIKey; key != "" && doc.Settings.GoogleAPIKey == nil {
		if _, err := s.Collection.UpdateSettings(ctx, collection.SettingsUpdate{GoogleAPIKey: &key}); err != nil {
			return fmt.Errorf("seed google api key: %w", err)
		}
	}

	logx.WithContext(ctx).Infow("Collection ready", logx.Field("fonts", len(doc.Fonts)))
	return nil
}

// APIKey returns the Google Fonts key from the settings, falling back to
// the configured one.
func (s *ServiceContext) APIKey(ctx context.Context) string {
	settings, err := s.Collection.Settings(ctx)
	if err == nil && settings.APIKey() != "" {
		return settings.APIKey()
	}
	return s.Config.Google.APIKey
}

func refreshConfig(c config.RefreshConfig) (refresh.Config, error) {
	cfg := refresh.DefaultConfig()
	if c.MaxRetries > 0 {
		cfg.MaxRetries = c.MaxRetries
	}
	var err error
	if cfg.RetryBackoff, err = parseDuration("Refresh.RetryBackoff", c.RetryBackoff, cfg.RetryBackoff); err != nil {
		return cfg, err
	}
	if cfg.MaxBackoff, err = parseDuration("Refresh.MaxBackoff", c.MaxBackoff, cfg.MaxBackoff); err != nil {
		return cfg, err
	}
	if c.RateLimit > 0 {
		cfg.RateLimit = c.RateLimit
	}
	return cfg, nil
}

// parseDuration reads a duration setting. Empty means def.
func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config %s: %q must be positive", field, value)
	}
	return d, nil
}

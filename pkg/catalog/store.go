package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
	"github.com/zeromicro/go-zero/core/hash"
	"github.com/zeromicro/go-zero/core/syncx"
	"golang.org/x/time/rate"
)

//go:embed data/catalogs/*.json
var embedded embed.FS

// DefaultResources returns the curated catalogs shipped with the binary
func DefaultResources() fs.FS {
	sub, err := fs.Sub(embedded, "data/catalogs")
	if err != nil {
		panic(err)
	}
	return sub
}

// Persister stores full catalogs beyond the lifetime of the process
type Persister interface {
	SaveCatalog(ctx context.Context, c *Catalog) error
	LoadCatalogs(ctx context.Context) ([]*Catalog, error)
}

type cacheKey struct {
	source font.Source
	tier   Tier
}

// Store provides catalogs by source with an in-memory cache keyed by
// (source, tier). Catalogs handed out are shared and must be treated as
// read-only.
type Store struct {
	resources fs.FS
	client    *http.Client
	limiter   *rate.Limiter
	googleURL string
	bunnyURL  string
	persister Persister

	mu     sync.RWMutex
	cache  map[cacheKey]*Catalog
	flight syncx.SingleFlight
}

// Option configures a Store
type Option func(*Store)

// WithResources reads curated catalogs and the starter config from fsys
func WithResources(fsys fs.FS) Option {
	return func(s *Store) {
		s.resources = fsys
	}
}

// WithHTTPClient sets the client used for remote catalogs
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.client = c
	}
}

// WithEndpoints overrides the Google and Bunny list endpoints
func WithEndpoints(googleURL, bunnyURL string) Option {
	return func(s *Store) {
		if googleURL != "" {
			s.googleURL = googleURL
		}
		if bunnyURL != "" {
			s.bunnyURL = bunnyURL
		}
	}
}

// WithPersister saves every successfully fetched full catalog
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persister = p
	}
}

// WithRateLimit caps remote catalog requests per minute
func WithRateLimit(perMinute int) Option {
	return func(s *Store) {
		if perMinute > 0 {
			s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// NewStore creates a catalog store with the specified options
func NewStore(opts ...Option) *Store {
	s := &Store{
		resources: DefaultResources(),
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Inf, 1),
		googleURL: GoogleWebFontsAPI,
		bunnyURL:  BunnyListAPI,
		cache:     make(map[cacheKey]*Catalog),
		flight:    syncx.NewSingleFlight(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LoadCurated returns the curated catalog for a source. A catalog that
// cannot be read degrades to an empty catalog tagged with the source; the
// degraded value is not cached so a later call retries.
func (s *Store) LoadCurated(source font.Source) *Catalog {
	if c, ok := s.Cached(source, TierCurated); ok {
		catalogRequests.Inc(string(source), TierCurated.String(), "hit")
		return c
	}

	c, err := s.readCurated(source)
	if err != nil {
		log.Error("Failed to load curated catalog", "source", source, "error", err)
		catalogRequests.Inc(string(source), TierCurated.String(), "degraded")
		return Empty(source)
	}

	s.put(TierCurated, c)
	catalogRequests.Inc(string(source), TierCurated.String(), "ok")
	return c
}

// readCurated reads and parses a curated catalog resource
func (s *Store) readCurated(source font.Source) (*Catalog, error) {
	data, err := fs.ReadFile(s.resources, CuratedPath(source))
	if err != nil {
		return nil, fmt.Errorf("read %s catalog: %w", source, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", source, err)
	}

	if c.Source == "" {
		c.Source = source
	}
	if c.Source != source {
		return nil, fmt.Errorf("catalog %s is tagged %q", CuratedPath(source), c.Source)
	}
	for i := range c.Fonts {
		c.Fonts[i].Weights = font.NormalizeWeights(c.Fonts[i].Weights)
		if c.Fonts[i].Category == "" {
			c.Fonts[i].Category = font.CategorySansSerif
		}
	}
	return &c, nil
}

// FetchFull returns the full catalog of a source, fetching it on first use.
// Google requires apiKey; Fontshare has no full catalog. Failures are never
// cached.
func (s *Store) FetchFull(ctx context.Context, source font.Source, apiKey string) (*Catalog, error) {
	if c, ok := s.Cached(source, TierFull); ok {
		catalogRequests.Inc(string(source), TierFull.String(), "hit")
		return c, nil
	}

	switch source {
	case font.SourceGoogle, font.SourceBunny:
	case font.SourceFontshare:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, source)
	default:
		return nil, fmt.Errorf("%w: %q", font.ErrUnknownSource, source)
	}

	// The shared fetch outlives any single caller, so it is detached from
	// the first caller's cancellation. The HTTP client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err := s.flight.Do(flightKey(source, apiKey), func() (any, error) {
		return s.fetchAndStore(fetchCtx, source, apiKey)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// flightKey groups concurrent fetches that would send the same request
func flightKey(source font.Source, apiKey string) string {
	if source != font.SourceGoogle {
		return string(source)
	}
	return string(source) + ":" + hash.Md5Hex([]byte(apiKey))
}

// Refresh drops the cached full catalog of a source and fetches it again
func (s *Store) Refresh(ctx context.Context, source font.Source, apiKey string) (*Catalog, error) {
	s.Invalidate(source, TierFull)
	return s.FetchFull(ctx, source, apiKey)
}

func (s *Store) fetchAndStore(ctx context.Context, source font.Source, apiKey string) (*Catalog, error) {
	start := time.Now()

	var (
		c   *Catalog
		err error
	)
	switch source {
	case font.SourceGoogle:
		c, err = s.fetchGoogle(ctx, apiKey)
	case font.SourceBunny:
		c, err = s.fetchBunny(ctx)
	}
	catalogFetchDuration.ObserveFloat(time.Since(start).Seconds(), string(source))
	if err != nil {
		log.Error("Failed to fetch full catalog", "source", source, "error", err)
		catalogRequests.Inc(string(source), TierFull.String(), "error")
		return nil, err
	}

	s.put(TierFull, c)
	catalogRequests.Inc(string(source), TierFull.String(), "ok")
	log.Info("Full catalog fetched", "source", source, "fonts", len(c.Fonts))

	if s.persister != nil {
		if err := s.persister.SaveCatalog(ctx, c); err != nil {
			log.Warn("Failed to persist full catalog", "source", source, "error", err)
		}
	}
	return c, nil
}

// Restore loads persisted full catalogs into the cache
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	catalogs, err := s.persister.LoadCatalogs(ctx)
	if err != nil {
		return fmt.Errorf("load persisted catalogs: %w", err)
	}
	for _, c := range catalogs {
		if SupportsFull(c.Source) {
			s.put(TierFull, c)
		}
	}
	log.Info("Restored full catalogs", "count", len(catalogs))
	return nil
}

// Cached returns a catalog only if it is already in the cache
func (s *Store) Cached(source font.Source, tier Tier) (*Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cache[cacheKey{source: source, tier: tier}]
	return c, ok
}

// IsFullLoaded reports whether the full catalog of a source is cached
func (s *Store) IsFullLoaded(source font.Source) bool {
	if !SupportsFull(source) {
		return false
	}
	_, ok := s.Cached(source, TierFull)
	return ok
}

// FindFont looks a catalog id up in the cached curated catalog of a
// source, then in its cached full catalog.
func (s *Store) FindFont(source font.Source, id string) (font.CatalogFont, bool) {
	for _, tier := range []Tier{TierCurated, TierFull} {
		if c, ok := s.Cached(source, tier); ok {
			if f, found := c.Find(id); found {
				return f, true
			}
		}
	}
	return font.CatalogFont{}, false
}

// Resolve turns a catalog id into a collection font, loading the curated
// catalog of the source first when it is not cached yet.
func (s *Store) Resolve(source font.Source, id string) (font.AppFont, error) {
	if !source.IsCatalog() {
		return font.AppFont{}, fmt.Errorf("%w: %q", font.ErrUnknownSource, source)
	}
	if _, ok := s.Cached(source, TierCurated); !ok {
		s.LoadCurated(source)
	}
	cf, ok := s.FindFont(source, id)
	if !ok {
		return font.AppFont{}, fmt.Errorf("%w: %s/%s", ErrFontNotFound, source, id)
	}
	return font.FromCatalog(cf, source)
}

// Invalidate drops one cache entry
func (s *Store) Invalidate(source font.Source, tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, cacheKey{source: source, tier: tier})
}

// Reset empties the cache
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[cacheKey]*Catalog)
}

func (s *Store) put(tier Tier, c *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[cacheKey{source: c.Source, tier: tier}] = c
}

func (s *Store) get(ctx context.Context, url string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return s.client.Do(req)
}

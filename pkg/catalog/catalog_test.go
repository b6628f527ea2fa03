package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const curatedGoogle = `{
  "version": "1.0.0",
  "source": "google",
  "sourceName": "Google Fonts",
  "sourceUrl": "https://fonts.google.com",
  "fonts": [
    {"id": "inter", "name": "Inter", "family": "Inter", "category": "sans-serif", "weights": [700, 400, 400], "hasItalic": false, "popularity": 1},
    {"id": "lora", "name": "Lora", "family": "Lora", "category": "serif", "weights": [400, 700], "hasItalic": true, "popularity": 2},
    {"id": "fira-code", "name": "Fira Code", "family": "Fira Code", "category": "monospace", "weights": [400], "hasItalic": false, "popularity": 3}
  ]
}`

func testResources() fstest.MapFS {
	return fstest.MapFS{
		"google-curated.json": {Data: []byte(curatedGoogle)},
		"bunny-curated.json":  {Data: []byte(`{not json`)},
		"starter-fonts.json": {Data: []byte(`{"fonts": [
			{"source": "google", "id": "inter", "favorite": true},
			{"source": "google", "id": "missing"},
			{"source": "google", "id": "lora"}
		]}`)},
	}
}

func TestParseVariants(t *testing.T) {
	weights, italic := ParseVariants([]string{"regular", "700", "700italic", "italic"})
	assert.Equal(t, []int{400, 700}, weights)
	assert.True(t, italic)

	weights, italic = ParseVariants([]string{"italic"})
	assert.Equal(t, []int{400}, weights)
	assert.True(t, italic)

	weights, italic = ParseVariants([]string{"300", "100"})
	assert.Equal(t, []int{100, 300}, weights)
	assert.False(t, italic)
}

func TestTransformGoogle(t *testing.T) {
	c := TransformGoogle(GoogleFontsResponse{Items: []GoogleFontItem{
		{Family: "Open Sans", Category: "sans-serif", Variants: []string{"regular", "600italic"}},
		{Family: "Roboto Mono", Category: "monospace", Variants: []string{"300"}},
	}})

	assert.Equal(t, font.SourceGoogle, c.Source)
	assert.Equal(t, "1.0.0", c.Version)
	require.Len(t, c.Fonts, 2)
	assert.Equal(t, "open-sans", c.Fonts[0].ID)
	assert.Equal(t, []int{400, 600}, c.Fonts[0].Weights)
	assert.True(t, c.Fonts[0].HasItalic)
	assert.Equal(t, 1, c.Fonts[0].Popularity)
	assert.Equal(t, "roboto-mono", c.Fonts[1].ID)
	assert.Equal(t, 2, c.Fonts[1].Popularity)
}

func TestTransformBunny(t *testing.T) {
	c := TransformBunny(map[string]BunnyFontItem{
		"zilla-slab": {FamilyName: "Zilla Slab", Category: "serif", Styles: map[string]any{"400": 1, "700italic": 1}},
		"abel":       {FamilyName: "Abel", Styles: map[string]any{"400": 1}},
	})

	require.Len(t, c.Fonts, 2)
	assert.Equal(t, "abel", c.Fonts[0].ID)
	assert.Equal(t, 1, c.Fonts[0].Popularity)
	assert.Equal(t, font.CategorySansSerif, c.Fonts[0].Category)
	assert.Equal(t, "zilla-slab", c.Fonts[1].ID)
	assert.Equal(t, 2, c.Fonts[1].Popularity)
	assert.Equal(t, []int{400, 700}, c.Fonts[1].Weights)
	assert.True(t, c.Fonts[1].HasItalic)
}

func TestLoadCurated(t *testing.T) {
	s := NewStore(WithResources(testResources()))

	t.Run("Loads", func(t *testing.T) {
		c := s.LoadCurated(font.SourceGoogle)
		require.Len(t, c.Fonts, 3)
		assert.Equal(t, []int{400, 700}, c.Fonts[0].Weights)

		cached, ok := s.Cached(font.SourceGoogle, TierCurated)
		require.True(t, ok)
		assert.Same(t, c, cached)
	})

	t.Run("MalformedDegradesToEmpty", func(t *testing.T) {
		c := s.LoadCurated(font.SourceBunny)
		assert.Equal(t, font.SourceBunny, c.Source)
		assert.Empty(t, c.Fonts)

		_, ok := s.Cached(font.SourceBunny, TierCurated)
		assert.False(t, ok)
	})

	t.Run("MissingDegradesToEmpty", func(t *testing.T) {
		c := s.LoadCurated(font.SourceFontshare)
		assert.Equal(t, font.SourceFontshare, c.Source)
		assert.NotNil(t, c.Fonts)
		assert.Empty(t, c.Fonts)
	})

	t.Run("Embedded", func(t *testing.T) {
		embedded := NewStore()
		for _, source := range font.CatalogSources {
			c := embedded.LoadCurated(source)
			assert.NotEmpty(t, c.Fonts, source)
		}
		_, ok := embedded.FindFont(font.SourceGoogle, "inter")
		assert.True(t, ok)
	})
}

func TestFetchFullGoogle(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("key") {
		case "good":
			assert.Equal(t, "popularity", r.URL.Query().Get("sort"))
			_ = json.NewEncoder(w).Encode(GoogleFontsResponse{Items: []GoogleFontItem{
				{Family: "Inter", Category: "sans-serif", Variants: []string{"regular", "700"}},
			}})
		case "malformed":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"message": "API key not valid. Please pass a valid API key."}}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("MissingKey", func(t *testing.T) {
		s := NewStore(WithEndpoints(srv.URL, ""))
		_, err := s.FetchFull(ctx, font.SourceGoogle, "")
		assert.ErrorIs(t, err, ErrCredentialMissing)
		assert.True(t, IsPermanent(err))
		assert.False(t, s.IsFullLoaded(font.SourceGoogle))
	})

	t.Run("InvalidKey", func(t *testing.T) {
		s := NewStore(WithEndpoints(srv.URL, ""))
		_, err := s.FetchFull(ctx, font.SourceGoogle, "nope")
		assert.ErrorIs(t, err, ErrCredentialInvalid)
		assert.NotErrorIs(t, err, ErrCredentialMissing)
		assert.False(t, s.IsFullLoaded(font.SourceGoogle))

		_, err = s.FetchFull(ctx, font.SourceGoogle, "malformed")
		assert.ErrorIs(t, err, ErrCredentialInvalid)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		s := NewStore(WithEndpoints(srv.URL, ""))
		_, err := s.FetchFull(ctx, font.SourceGoogle, "broken")
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.False(t, IsPermanent(err))
	})

	t.Run("Cached", func(t *testing.T) {
		s := NewStore(WithEndpoints(srv.URL, ""))
		before := calls.Load()

		c, err := s.FetchFull(ctx, font.SourceGoogle, "good")
		require.NoError(t, err)
		require.Len(t, c.Fonts, 1)
		assert.True(t, s.IsFullLoaded(font.SourceGoogle))

		again, err := s.FetchFull(ctx, font.SourceGoogle, "good")
		require.NoError(t, err)
		assert.Same(t, c, again)
		assert.Equal(t, before+1, calls.Load())
	})
}

func TestFetchFullBunny(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"abel": {"familyName": "Abel", "category": "sans-serif", "styles": {"400": {}}}}`))
	}))
	defer srv.Close()

	p := &memPersister{}
	s := NewStore(WithEndpoints("", srv.URL), WithPersister(p))

	c, err := s.FetchFull(context.Background(), font.SourceBunny, "")
	require.NoError(t, err)
	assert.Equal(t, font.SourceBunny, c.Source)
	require.Len(t, p.saved, 1)
	assert.Same(t, c, p.saved[0])

	restored := NewStore(WithPersister(p))
	require.NoError(t, restored.Restore(context.Background()))
	assert.True(t, restored.IsFullLoaded(font.SourceBunny))
}

func TestFetchFullConcurrentCallers(t *testing.T) {
	t.Run("DistinctKeysDoNotShareResults", func(t *testing.T) {
		arrived := make(chan struct{})
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("key") == "stale" {
				close(arrived)
				<-release
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_ = json.NewEncoder(w).Encode(GoogleFontsResponse{Items: []GoogleFontItem{
				{Family: "Inter", Category: "sans-serif", Variants: []string{"regular"}},
			}})
		}))
		defer srv.Close()
		defer close(release)

		s := NewStore(WithEndpoints(srv.URL, ""))
		stale := make(chan error, 1)
		go func() {
			_, err := s.FetchFull(context.Background(), font.SourceGoogle, "stale")
			stale <- err
		}()
		<-arrived

		c, err := s.FetchFull(context.Background(), font.SourceGoogle, "fresh")
		require.NoError(t, err)
		assert.Len(t, c.Fonts, 1)

		release <- struct{}{}
		assert.ErrorIs(t, <-stale, ErrCredentialInvalid)
	})

	t.Run("CancelledCallerDoesNotFailOthers", func(t *testing.T) {
		var calls atomic.Int32
		arrived := make(chan struct{})
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				close(arrived)
				<-release
			}
			_, _ = w.Write([]byte(`{"abel": {"familyName": "Abel", "category": "sans-serif", "styles": {"400": {}}}}`))
		}))
		defer srv.Close()
		defer close(release)

		s := NewStore(WithEndpoints("", srv.URL))
		ctx, cancel := context.WithCancel(context.Background())
		first := make(chan error, 1)
		go func() {
			_, err := s.FetchFull(ctx, font.SourceBunny, "")
			first <- err
		}()
		<-arrived

		second := make(chan error, 1)
		go func() {
			_, err := s.FetchFull(context.Background(), font.SourceBunny, "")
			second <- err
		}()

		cancel()
		release <- struct{}{}
		assert.NoError(t, <-first)
		assert.NoError(t, <-second)
		assert.True(t, s.IsFullLoaded(font.SourceBunny))
	})
}

func TestFetchFullUnsupported(t *testing.T) {
	s := NewStore()

	_, err := s.FetchFull(context.Background(), font.SourceFontshare, "")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.True(t, IsPermanent(err))
	assert.False(t, s.IsFullLoaded(font.SourceFontshare))

	_, err = s.FetchFull(context.Background(), font.SourceCDN, "")
	assert.ErrorIs(t, err, font.ErrUnknownSource)
}

func TestSearch(t *testing.T) {
	c := NewStore(WithResources(testResources())).LoadCurated(font.SourceGoogle)

	t.Run("EmptyQueryAllCategories", func(t *testing.T) {
		got := Search(c, "", Filters{Category: CategoryAll})
		assert.Equal(t, c.Fonts, got)

		got[0].Name = "changed"
		assert.Equal(t, "Inter", c.Fonts[0].Name)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		got := Search(c, "LOR", Filters{})
		require.Len(t, got, 1)
		assert.Equal(t, "lora", got[0].ID)
	})

	t.Run("Category", func(t *testing.T) {
		got := Search(c, "", Filters{Category: "monospace"})
		require.Len(t, got, 1)
		assert.Equal(t, "fira-code", got[0].ID)
	})

	t.Run("Categories", func(t *testing.T) {
		assert.Equal(t, []string{"monospace", "sans-serif", "serif"}, Categories(c))
	})
}

func TestStarterFonts(t *testing.T) {
	s := NewStore(WithResources(testResources()))

	fonts, err := s.StarterFonts(context.Background())
	require.NoError(t, err)
	require.Len(t, fonts, 2)
	assert.Equal(t, "google-inter", fonts[0].ID)
	assert.True(t, fonts[0].Favorite)
	assert.Equal(t, "google-lora", fonts[1].ID)
	assert.False(t, fonts[1].Favorite)

	t.Run("MissingConfig", func(t *testing.T) {
		s := NewStore(WithResources(fstest.MapFS{}))
		assert.Empty(t, s.LoadStarterConfig().Fonts)

		fonts, err := s.StarterFonts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, fonts)
	})

	t.Run("EmbeddedStartersResolve", func(t *testing.T) {
		s := NewStore()
		fonts, err := s.StarterFonts(context.Background())
		require.NoError(t, err)
		assert.Len(t, fonts, len(s.LoadStarterConfig().Fonts))
	})
}

func TestCacheControl(t *testing.T) {
	s := NewStore(WithResources(testResources()))
	s.LoadCurated(font.SourceGoogle)

	_, ok := s.FindFont(font.SourceGoogle, "lora")
	assert.True(t, ok)

	s.Invalidate(font.SourceGoogle, TierCurated)
	_, ok = s.Cached(font.SourceGoogle, TierCurated)
	assert.False(t, ok)

	s.LoadCurated(font.SourceGoogle)
	s.Reset()
	_, ok = s.FindFont(font.SourceGoogle, "lora")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	s := NewStore(WithResources(testResources()))

	f, err := s.Resolve(font.SourceGoogle, "lora")
	require.NoError(t, err)
	assert.Equal(t, "google-lora", f.ID)
	assert.Equal(t, font.CategorySerif, f.Category)
	assert.Contains(t, f.URL, "family=Lora")

	_, err = s.Resolve(font.SourceGoogle, "nope")
	assert.ErrorIs(t, err, ErrFontNotFound)

	_, err = s.Resolve(font.SourceCDN, "lora")
	assert.ErrorIs(t, err, font.ErrUnknownSource)
}

func TestCuratedSource(t *testing.T) {
	source, ok := curatedSource("bunny-curated.json")
	assert.True(t, ok)
	assert.Equal(t, font.SourceBunny, source)

	_, ok = curatedSource("starter-fonts.json")
	assert.False(t, ok)
	_, ok = curatedSource("cdn-curated.json")
	assert.False(t, ok)
}

type memPersister struct {
	saved []*Catalog
}

func (m *memPersister) SaveCatalog(_ context.Context, c *Catalog) error {
	m.saved = append(m.saved, c)
	return nil
}

func (m *memPersister) LoadCatalogs(_ context.Context) ([]*Catalog, error) {
	return m.saved, nil
}

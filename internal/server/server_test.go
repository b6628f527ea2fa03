package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/joeblew999/fontdue/internal/config"
	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/logic/catalogs"
	"github.com/joeblew999/fontdue/internal/logic/fonts"
	"github.com/joeblew999/fontdue/internal/logic/loading"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/db"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/conf"
)

// projectRoot finds the project root by locating go.mod relative to this source file.
func projectRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")

	// internal/server/server_test.go
	root := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err, "expected go.mod at %s", root)
	return root
}

func newServiceContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	dir := t.TempDir()

	database, err := db.Open(filepath.Join(dir, "fontdue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	var c config.Config
	c.Storage.Driver = "sqlite"
	c.Catalogs.RestorePersisted = true
	c.Loader.Timeout = "1s"
	c.Loader.CacheDir = filepath.Join(dir, "fontcache")
	c.Refresh.MaxRetries = 2

	svcCtx, err := svc.NewServiceContext(c, database)
	require.NoError(t, err)
	require.NoError(t, svcCtx.Bootstrap(context.Background()))
	return svcCtx
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	var ce *errorx.CodeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, code, ce.Code, ce.Msg)
}

func TestConfigFileLoads(t *testing.T) {
	t.Setenv("GOOGLE_FONTS_API_KEY", "from-env")

	var c config.Config
	require.NoError(t, conf.Load(filepath.Join(projectRoot(t), "etc", "fontdue.yaml"), &c, conf.UseEnv()))

	assert.Equal(t, 8081, c.Port)
	assert.Equal(t, 8082, c.UI.Port)
	assert.Equal(t, 8083, c.API.Port)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, "from-env", c.Google.APIKey)
	assert.True(t, c.Catalogs.RestorePersisted)
	assert.True(t, c.Loader.Verify)
	assert.Equal(t, 3, c.Refresh.MaxRetries)
}

func TestCheckCatalogs(t *testing.T) {
	assert.NoError(t, checkCatalogs(""))
	assert.NoError(t, checkCatalogs(t.TempDir()), "missing curated files only warn")
	assert.Error(t, checkCatalogs(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	assert.Error(t, checkCatalogs(file))
}

func TestBootstrapSeedsStarters(t *testing.T) {
	svcCtx := newServiceContext(t)
	l := fonts.NewFontsLogic(context.Background(), svcCtx)

	list, err := l.List(&types.FontListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 9, list.Total)

	selected, err := l.Selected()
	require.NoError(t, err)
	assert.Equal(t, font.DefaultFontID, selected.ID)

	google, err := l.List(&types.FontListRequest{Source: "google"})
	require.NoError(t, err)
	assert.Equal(t, 4, google.Total)

	_, err = l.List(&types.FontListRequest{Source: "dropbox"})
	assertCode(t, err, http.StatusBadRequest)
}

func TestFontsLogic(t *testing.T) {
	svcCtx := newServiceContext(t)
	l := fonts.NewFontsLogic(context.Background(), svcCtx)

	t.Run("add from catalog", func(t *testing.T) {
		f, err := l.AddCatalog(&types.AddCatalogFontRequest{Source: "google", Id: "roboto"})
		require.NoError(t, err)
		assert.Equal(t, "google-roboto", f.ID)
		assert.Contains(t, f.URL, "fonts.googleapis.com")

		_, err = l.AddCatalog(&types.AddCatalogFontRequest{Source: "google", Id: "roboto"})
		assertCode(t, err, http.StatusConflict)

		_, err = l.AddCatalog(&types.AddCatalogFontRequest{Source: "google", Id: "no-such-font"})
		assertCode(t, err, http.StatusNotFound)

		_, err = l.AddCatalog(&types.AddCatalogFontRequest{Source: "cdn", Id: "roboto"})
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("add by family", func(t *testing.T) {
		f, err := l.AddCatalog(&types.AddCatalogFontRequest{Source: "bunny", Family: "Open Sans"})
		require.NoError(t, err)
		assert.Equal(t, "bunny-open-sans", f.ID)

		_, err = l.AddCatalog(&types.AddCatalogFontRequest{Source: "bunny"})
		assertCode(t, err, http.StatusBadRequest)
	})

	t.Run("add cdn and local", func(t *testing.T) {
		_, err := l.AddCdn(&types.AddCdnFontRequest{Name: "Brand"})
		assertCode(t, err, http.StatusBadRequest)

		f, err := l.AddCdn(&types.AddCdnFontRequest{Name: "Brand", Url: "https://cdn.example.com/brand.css"})
		require.NoError(t, err)
		assert.Equal(t, font.SourceCDN, f.Source)
		assert.Equal(t, "Brand", f.Family)

		f, err = l.AddLocal(&types.AddLocalFontRequest{Family: "Helvetica", System: true})
		require.NoError(t, err)
		assert.Equal(t, font.SourceSystem, f.Source)
	})

	t.Run("update favorite delete", func(t *testing.T) {
		name := "Roboto Regular"
		f, err := l.Update("google-roboto", collection.FontUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, f.Name)
		assert.Equal(t, "google-roboto", f.ID)

		f, err = l.ToggleFavorite(&types.FontPathRequest{Id: "google-roboto"})
		require.NoError(t, err)
		assert.True(t, f.Favorite)

		groups, err := l.Grouped()
		require.NoError(t, err)
		var favorites []string
		for _, g := range groups.Favorites {
			favorites = append(favorites, g.ID)
		}
		assert.Contains(t, favorites, "google-roboto")

		_, err = l.Delete(&types.FontPathRequest{Id: "google-roboto"})
		require.NoError(t, err)
		_, err = l.Delete(&types.FontPathRequest{Id: "google-roboto"})
		assertCode(t, err, http.StatusNotFound)
		_, err = l.Update("google-roboto", collection.FontUpdate{Name: &name})
		assertCode(t, err, http.StatusNotFound)
	})

	t.Run("selection and settings", func(t *testing.T) {
		_, err := l.Select(&types.SelectFontRequest{Id: "missing"})
		assertCode(t, err, http.StatusNotFound)

		f, err := l.Select(&types.SelectFontRequest{Id: "google-lora"})
		require.NoError(t, err)
		assert.Equal(t, "google-lora", f.ID)

		theme := "sepia"
		_, err = l.UpdateSettings(collection.SettingsUpdate{Theme: &theme})
		assertCode(t, err, http.StatusBadRequest)

		theme = collection.ThemeLight
		settings, err := l.UpdateSettings(collection.SettingsUpdate{Theme: &theme})
		require.NoError(t, err)
		assert.Equal(t, collection.ThemeLight, settings.Theme)
		assert.Equal(t, "google-lora", settings.SelectedFontID)
	})

	t.Run("export import", func(t *testing.T) {
		data, err := l.Export()
		require.NoError(t, err)

		var doc collection.Document
		require.NoError(t, json.Unmarshal(data, &doc))
		before := len(doc.Fonts)

		_, err = l.Clear()
		require.NoError(t, err)
		list, err := l.List(&types.FontListRequest{})
		require.NoError(t, err)
		assert.Zero(t, list.Total)

		_, err = l.Import([]byte(`{"settings":{}}`))
		assertCode(t, err, http.StatusBadRequest)

		_, err = l.Import(data)
		require.NoError(t, err)
		list, err = l.List(&types.FontListRequest{})
		require.NoError(t, err)
		assert.Equal(t, before, list.Total)
	})

	t.Run("reset", func(t *testing.T) {
		_, err := l.Reset()
		require.NoError(t, err)
		list, err := l.List(&types.FontListRequest{})
		require.NoError(t, err)
		assert.Equal(t, 9, list.Total)
	})
}

func TestCatalogsLogic(t *testing.T) {
	svcCtx := newServiceContext(t)
	l := catalogs.NewCatalogsLogic(context.Background(), svcCtx)

	resp, err := l.Catalog(&types.CatalogRequest{Source: "google", Query: "mono"})
	require.NoError(t, err)
	assert.Equal(t, "curated", resp.Tier)
	require.NotEmpty(t, resp.Fonts)
	for _, f := range resp.Fonts {
		assert.Contains(t, f.Family, "Mono")
	}

	cats, err := l.Categories(&types.CatalogRequest{Source: "fontshare"})
	require.NoError(t, err)
	assert.NotEmpty(t, cats.Categories)

	_, err = l.Catalog(&types.CatalogRequest{Source: "cdn"})
	assertCode(t, err, http.StatusBadRequest)

	_, err = l.Refresh(&types.RefreshRequest{Source: "fontshare"})
	assertCode(t, err, http.StatusBadRequest)

	job, err := l.Refresh(&types.RefreshRequest{Source: "bunny"})
	require.NoError(t, err)
	assert.Equal(t, "bunny", job.Source)
	assert.Equal(t, "pending", job.Status)
	assert.Equal(t, 2, job.MaxAttempts)

	jobs, err := l.Jobs(&types.JobListRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, jobs.Jobs, 1)
	assert.Equal(t, 1, jobs.Stats["pending"])

	_, err = l.Job(&types.JobPathRequest{Id: "missing"})
	assertCode(t, err, http.StatusNotFound)

	persisted, err := l.Persisted()
	require.NoError(t, err)
	assert.Empty(t, persisted.Catalogs)
}

func TestLoadingLogic(t *testing.T) {
	svcCtx := newServiceContext(t)
	l := loading.NewLoadingLogic(context.Background(), svcCtx)

	st, err := l.Load(&types.FontPathRequest{Id: "google-inter"})
	require.NoError(t, err)
	assert.Equal(t, "loaded", st.State)

	_, err = l.Load(&types.FontPathRequest{Id: "missing"})
	assertCode(t, err, http.StatusNotFound)

	state, err := l.Preview()
	require.NoError(t, err)
	assert.Contains(t, state.Loaded, "google-inter")
	require.Len(t, state.Head, 1)
	assert.Equal(t, "font-google-inter", state.Head[0].ID)
	assert.Contains(t, state.RootStyle, "--preview-font")

	st, err = l.Unload(&types.FontPathRequest{Id: "google-inter"})
	require.NoError(t, err)
	assert.Equal(t, "unloaded", st.State)

	batch, err := l.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, 9, batch.Loaded)
	assert.Zero(t, batch.Failed)
}

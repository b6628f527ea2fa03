package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t     *testing.T
	store string
	cache string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	return &harness{
		t:     t,
		store: filepath.Join(dir, "collection.json"),
		cache: filepath.Join(dir, "fonts"),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd(&App{})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--store", h.store, "--cache", h.cache, "--catalogs="}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) listFonts(args ...string) []font.AppFont {
	h.t.Helper()
	out := h.mustRun(append([]string{"fonts", "list", "--json"}, args...)...)
	var fonts []font.AppFont
	require.NoError(h.t, json.Unmarshal([]byte(out), &fonts))
	return fonts
}

func TestCatalogCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("catalog", "search", "mono", "--source", "google")
	assert.Contains(t, out, "JetBrains Mono")
	assert.NotContains(t, out, "Playfair Display")

	out = h.mustRun("catalog", "search", "--source", "bunny", "--limit", "2", "--json")
	var fonts []font.CatalogFont
	require.NoError(t, json.Unmarshal([]byte(out), &fonts))
	assert.Len(t, fonts, 2)

	out = h.mustRun("catalog", "categories", "--source", "fontshare", "--json")
	var cats []string
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	assert.NotEmpty(t, cats)

	_, err := h.run("catalog", "search", "--source", "cdn")
	assert.ErrorIs(t, err, font.ErrUnknownSource)

	_, err = h.run("catalog", "search", "--source", "fontshare", "--full")
	assert.ErrorIs(t, err, catalog.ErrUnsupported)
}

func TestFontsCommands(t *testing.T) {
	h := newHarness(t)

	assert.Len(t, h.listFonts(), 9, "first use seeds the starter fonts")
	assert.Len(t, h.listFonts("--source", "google"), 4)

	out := h.mustRun("fonts", "add", "google", "roboto")
	assert.Contains(t, out, "Added Roboto")

	_, err := h.run("fonts", "add", "google", "roboto")
	assert.ErrorIs(t, err, ErrFontExists)

	_, err = h.run("fonts", "add", "google", "not-a-font")
	assert.ErrorIs(t, err, catalog.ErrFontNotFound)

	h.mustRun("fonts", "add", "bunny", "--family", "Open Sans", "--weights", "700,400")
	h.mustRun("fonts", "add", "cdn", "Brand", "--url", "https://cdn.example.com/brand.css")
	h.mustRun("fonts", "add", "system", "Helvetica")

	_, err = h.run("fonts", "add", "cdn", "Brand")
	assert.Error(t, err)
	_, err = h.run("fonts", "add", "dropbox", "x")
	assert.ErrorIs(t, err, font.ErrUnknownSource)

	out = h.mustRun("fonts", "favorite", "google-roboto")
	assert.Contains(t, out, "Favorited Roboto")
	favorites := h.listFonts("--favorites")
	ids := make([]string, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, "google-roboto")

	byID := map[string]font.AppFont{}
	for _, f := range h.listFonts() {
		byID[f.ID] = f
	}
	assert.Len(t, byID, 13)
	assert.Equal(t, []int{400, 700}, byID["bunny-open-sans"].Weights)

	system := h.listFonts("--source", "system")
	require.Len(t, system, 1)
	assert.Equal(t, "Helvetica", system[0].Family)
	assert.True(t, strings.HasPrefix(system[0].ID, "helvetica-"))

	h.mustRun("fonts", "remove", "google-roboto")
	_, err = h.run("fonts", "remove", "google-roboto")
	assert.Error(t, err)
}

func TestAddUpload(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "MyFont-Bold.woff2")
	require.NoError(t, os.WriteFile(path, []byte("wOF2 font bytes"), 0644))

	out := h.mustRun("fonts", "add", "upload", path, "--json")
	var f font.AppFont
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, font.SourceUpload, f.Source)
	assert.Equal(t, font.FormatWOFF2, f.Format)
	assert.True(t, strings.HasPrefix(f.URL, "data:font/woff2;base64,"))

	notFont := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notFont, []byte("hello"), 0644))
	_, err := h.run("fonts", "add", "upload", notFont)
	assert.ErrorIs(t, err, font.ErrInvalidFontFile)
}

func TestExportImportReset(t *testing.T) {
	h := newHarness(t)
	h.mustRun("fonts", "add", "fontshare", "switzer")

	exported := filepath.Join(t.TempDir(), "export.json")
	h.mustRun("export", "--out", exported)

	out := h.mustRun("reset", "--clear")
	assert.Contains(t, out, "Removed all fonts")

	out = h.mustRun("import", exported)
	assert.Contains(t, out, "Imported 10 fonts")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"fonts": {}}`), 0644))
	_, err := h.run("import", bad)
	assert.Error(t, err)
	assert.Len(t, h.listFonts(), 10, "a rejected import leaves the collection untouched")

	out = h.mustRun("reset")
	assert.Contains(t, out, "reset to defaults")
	assert.Len(t, h.listFonts(), 9)

	out = h.mustRun("export")
	assert.Contains(t, out, `"selectedFontId": "google-inter"`)
}

func TestSchema(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("schema")

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "Fontdue collection", schema["title"])
	assert.Contains(t, out, "selectedFontId")
	assert.Contains(t, out, "dateAdded")
}

package ui

import (
	"strings"
	"testing"

	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, n.Render(&b))
	return b.String()
}

func TestCollectionGroups(t *testing.T) {
	inter := font.AppFont{ID: "google-inter", Name: "Inter", Family: "Inter", Source: font.SourceGoogle, Category: font.CategorySansSerif, Weights: []int{400, 700}, Favorite: true}
	groups := collection.Groups{Favorites: []font.AppFont{inter}, Google: []font.AppFont{inter}}

	out := render(t, CollectionGroups(groups, "google-inter"))
	assert.Contains(t, out, `id="collection-groups"`)
	assert.Contains(t, out, "Favorites (1)")
	assert.Contains(t, out, "Google Fonts (1)")
	assert.NotContains(t, out, "Bunny Fonts")
	assert.Contains(t, out, "/api/ui/fonts/google-inter/select")
	assert.Contains(t, out, "400, 700")

	empty := render(t, CollectionGroups(collection.Groups{}, ""))
	assert.Contains(t, empty, `id="collection-groups"`)
	assert.Contains(t, empty, "No fonts yet")
}

func TestCatalogItems(t *testing.T) {
	out := render(t, CatalogItems(font.SourceBunny, []font.CatalogFont{{ID: "nunito", Name: "Nunito", Category: font.CategorySansSerif, Weights: []int{400}}}))
	assert.Contains(t, out, "/api/ui/catalog/bunny/nunito/add")
	assert.Contains(t, out, "Nunito")

	assert.Contains(t, render(t, CatalogItems(font.SourceBunny, nil)), "No fonts match")
}

func TestHeadNodes(t *testing.T) {
	out := render(t, HeadNodes([]loader.Node{
		{ID: "font-google-inter", Kind: loader.NodeLink, Href: "https://fonts.example/inter.css"},
		{ID: "font-brand", Kind: loader.NodeStyle, CSS: "@font-face { font-family: \"Brand\"; }"},
	}))
	assert.Contains(t, out, `<link id="font-google-inter" rel="stylesheet" href="https://fonts.example/inter.css">`)
	assert.Contains(t, out, `<style id="font-brand">@font-face`)
}

func TestJobItems(t *testing.T) {
	out := render(t, JobItems([]types.RefreshJobResponse{{Id: "j1", Source: "google", Status: "failed", Attempts: 1, MaxAttempts: 3, Error: "invalid api key"}}))
	assert.Contains(t, out, "var(--danger)")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "invalid api key")

	assert.Contains(t, render(t, JobItems(nil)), "No refresh jobs")
}

func TestPreviewPage(t *testing.T) {
	f := font.AppFont{ID: "google-lora", Name: "Lora", Family: "Lora", Source: font.SourceGoogle, Category: font.CategorySerif, Weights: []int{400}}
	out := render(t, PreviewPage(f, nil, ":root {\n  --preview-font: \"Lora\", serif;\n}"))
	assert.Contains(t, out, "Preview: Lora")
	assert.Contains(t, out, `id="fontdue-preview"`)
	assert.Contains(t, out, "--preview-font")
}

func TestHostileFamilyStaysInsideStyle(t *testing.T) {
	f := font.AppFont{
		ID:       "brand",
		Name:     "Brand",
		Family:   "x</style><script>alert(1)</script>",
		Source:   font.SourceUpload,
		Category: font.CategorySansSerif,
		URL:      "data:font/woff2;base64,AAAA",
	}

	doc := loader.NewDocument(loader.WithoutVerification())
	doc.InjectStyle(f.ID, font.FontFaceCSS(f))
	doc.SetProperty("--preview-font", font.PreviewFamily(f))

	out := render(t, PreviewPage(f, doc.Head(), doc.RootStyle()))
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, `x\3c /style\3e \3c script\3e alert(1)`)

	// Layout, the font face and the preview rule are the only style elements.
	assert.Equal(t, strings.Count(out, "<style"), strings.Count(out, "</style>"))
	assert.Equal(t, 3, strings.Count(out, "</style>"))
}

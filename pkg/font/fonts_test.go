package font

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogFont() CatalogFont {
	return CatalogFont{
		ID:         "open-sans",
		Name:       "Open Sans",
		Family:     "Open Sans",
		Category:   CategorySansSerif,
		Weights:    []int{400, 700},
		HasItalic:  true,
		Popularity: 2,
	}
}

func TestBuildStylesheetURL(t *testing.T) {
	cf := testCatalogFont()

	t.Run("Google", func(t *testing.T) {
		url, err := BuildStylesheetURL(cf, SourceGoogle)
		require.NoError(t, err)
		assert.Equal(t, "https://fonts.googleapis.com/css2?family=Open%20Sans:wght@400;700&display=swap", url)
	})

	t.Run("Bunny", func(t *testing.T) {
		url, err := BuildStylesheetURL(cf, SourceBunny)
		require.NoError(t, err)
		assert.Equal(t, "https://fonts.bunny.net/css2?family=Open%20Sans:wght@400;700&display=swap", url)
	})

	t.Run("Fontshare", func(t *testing.T) {
		url, err := BuildStylesheetURL(cf, SourceFontshare)
		require.NoError(t, err)
		assert.Equal(t, "https://api.fontshare.com/v2/css?f[]=open-sans@400,700&display=swap", url)
	})

	t.Run("UnknownSource", func(t *testing.T) {
		_, err := BuildStylesheetURL(cf, SourceCDN)
		assert.ErrorIs(t, err, ErrUnknownSource)
	})
}

func TestFromCatalog(t *testing.T) {
	cf := testCatalogFont()

	for _, source := range CatalogSources {
		t.Run(string(source), func(t *testing.T) {
			f, err := FromCatalog(cf, source)
			require.NoError(t, err)
			assert.Equal(t, string(source)+"-"+cf.ID, f.ID)
			assert.Equal(t, source, f.Source)
			assert.Equal(t, cf.Weights, f.Weights)
			assert.True(t, f.HasItalic)
			assert.False(t, f.Favorite)
			assert.WithinDuration(t, time.Now(), f.DateAdded, time.Minute)
			assert.NotEmpty(t, f.URL)
		})
	}

	t.Run("WeightsAreCopied", func(t *testing.T) {
		f, err := FromCatalog(cf, SourceGoogle)
		require.NoError(t, err)
		f.Weights[0] = 100
		assert.Equal(t, 400, cf.Weights[0])
	})
}

func TestNonCatalogConstructors(t *testing.T) {
	t.Run("CDN", func(t *testing.T) {
		f := NewCDNFont("My Font", "MyFont", "https://cdn.example.com/font.css")
		assert.Equal(t, SourceCDN, f.Source)
		assert.Equal(t, []int{400}, f.Weights)
		assert.True(t, strings.HasPrefix(f.ID, "my-font-"))
		assert.Equal(t, "https://cdn.example.com/font.css", f.URL)
	})

	t.Run("Local", func(t *testing.T) {
		f := NewLocalFont(LocalDescriptor{Family: "Helvetica", FullName: "Helvetica Neue"})
		assert.Equal(t, SourceLocal, f.Source)
		assert.Equal(t, "Helvetica Neue", f.Name)
		assert.True(t, f.HasItalic)
		assert.Empty(t, f.URL)
		assert.Equal(t, []int{400}, f.Weights)
	})

	t.Run("System", func(t *testing.T) {
		f := NewSystemFont("Arial")
		assert.Equal(t, SourceSystem, f.Source)
		assert.Equal(t, "Arial", f.Name)
	})

	t.Run("Upload", func(t *testing.T) {
		f := NewUploadedFont("Brand", "Brand Sans", "data:font/woff2;base64,AAAA", FormatWOFF2)
		assert.Equal(t, SourceUpload, f.Source)
		assert.Equal(t, FormatWOFF2, f.Format)
		assert.Equal(t, []int{400}, f.Weights)
	})

	t.Run("Quick", func(t *testing.T) {
		f, err := NewQuickCatalogFont(SourceFontshare, "Satoshi", nil)
		require.NoError(t, err)
		assert.Equal(t, "fontshare-satoshi", f.ID)
		assert.Equal(t, []int{400, 700}, f.Weights)
		assert.Contains(t, f.URL, "f[]=satoshi@400,700")
	})
}

func TestIDGeneration(t *testing.T) {
	t.Run("Base", func(t *testing.T) {
		assert.Equal(t, "open-sans-bold", IDBase("  Open Sans -- Bold!! "))
		assert.Equal(t, "font", IDBase("__Font__"))
	})

	t.Run("UniqueWithinSameTick", func(t *testing.T) {
		fixed := time.UnixMilli(1_700_000_000_000)
		gen := NewIDGenerator(func() time.Time { return fixed })

		first := gen.Generate("Inter")
		second := gen.Generate("Inter")
		assert.NotEqual(t, first, second)
		assert.True(t, strings.HasPrefix(first, "inter-"))
	})

	t.Run("Slug", func(t *testing.T) {
		assert.Equal(t, "general-sans", Slug("General  Sans"))
	})
}

func TestNormalizeWeights(t *testing.T) {
	assert.Equal(t, []int{300, 400, 700}, NormalizeWeights([]int{700, 400, 300, 400}))
	assert.Equal(t, []int{400}, NormalizeWeights(nil))
}

func TestUploadHelpers(t *testing.T) {
	t.Run("FormatFromFilename", func(t *testing.T) {
		assert.Equal(t, FormatWOFF2, FormatFromFilename("a.WOFF2"))
		assert.Equal(t, FormatWOFF, FormatFromFilename("a.woff"))
		assert.Equal(t, FormatOpenType, FormatFromFilename("a.otf"))
		assert.Equal(t, FormatTrueType, FormatFromFilename("a.ttf"))
		assert.Equal(t, FormatEOT, FormatFromFilename("a.eot"))
		assert.Equal(t, FormatTrueType, FormatFromFilename("a.bin"))
	})

	t.Run("FormatFromDataURL", func(t *testing.T) {
		assert.Equal(t, FormatWOFF2, FormatFromDataURL("data:font/woff2;base64,AAAA"))
		assert.Equal(t, FormatWOFF, FormatFromDataURL("data:font/woff;base64,AAAA"))
		assert.Equal(t, FormatOpenType, FormatFromDataURL("data:font/otf;base64,AAAA"))
		// payload bytes must not influence detection
		assert.Equal(t, FormatTrueType, FormatFromDataURL("data:font/ttf;base64,d29mZjI="))
	})

	t.Run("IsValidFontFile", func(t *testing.T) {
		assert.True(t, IsValidFontFile("x.ttf", ""))
		assert.True(t, IsValidFontFile("x.bin", "font/woff2"))
		assert.False(t, IsValidFontFile("x.png", "image/png"))
	})

	t.Run("ExtractFontName", func(t *testing.T) {
		assert.Equal(t, "Open Sans Bold Italic", ExtractFontName("OpenSans-BoldItalic.ttf"))
		assert.Equal(t, "My Font", ExtractFontName("my_font.woff2"))
	})

	t.Run("ReadFontFile", func(t *testing.T) {
		payload := []byte{0x77, 0x4f, 0x46, 0x32, 0x00, 0x01}
		up, err := ReadFontFile(bytes.NewReader(payload), "Brand.woff2")
		require.NoError(t, err)
		assert.Equal(t, FormatWOFF2, up.Format)
		assert.Equal(t, "data:font/woff2;base64,"+base64.StdEncoding.EncodeToString(payload), up.DataURL)
	})

	t.Run("ReadEmptyFile", func(t *testing.T) {
		_, err := ReadFontFile(bytes.NewReader(nil), "Empty.ttf")
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestPreviewCSS(t *testing.T) {
	mono := AppFont{Family: "JetBrains Mono", Category: CategoryMonospace}
	assert.Equal(t, `"JetBrains Mono", "SF Mono", Monaco, "Cascadia Code", "Roboto Mono", Consolas, monospace`, PreviewFamily(mono))

	unknown := AppFont{Family: "X", Category: "weird"}
	assert.Contains(t, PreviewFamily(unknown), "sans-serif")

	up := AppFont{Family: "Brand", URL: "data:font/woff;base64,AAAA"}
	css := FontFaceCSS(up)
	assert.Contains(t, css, `format("woff")`)
	assert.Contains(t, css, "font-weight: 100 900;")
	assert.Contains(t, css, "font-style: normal;")
}

func TestCSSString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Inter", `"Inter"`},
		{`Say "hi"`, `"Say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"x</style>", `"x\3c /style\3e "`},
		{"a&b", `"a\26 b"`},
		{"line\nbreak", `"line\a break"`},
		{"Noto Sans 日本", `"Noto Sans 日本"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CSSString(tt.in), tt.in)
	}

	hostile := AppFont{Family: "x</style><script>alert(1)</script>", URL: "data:font/woff2;base64,<AA>"}
	for _, css := range []string{PreviewFamily(hostile), FontFaceCSS(hostile)} {
		assert.NotContains(t, css, "<")
		assert.NotContains(t, css, ">")
	}
}

func TestParseSource(t *testing.T) {
	s, err := ParseSource("bunny")
	require.NoError(t, err)
	assert.Equal(t, SourceBunny, s)
	assert.True(t, s.IsCatalog())
	assert.False(t, SourceUpload.IsCatalog())

	_, err = ParseSource("dropbox")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

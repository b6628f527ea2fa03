package font

const (
	// GoogleFontsAPI is the base URL for Google Fonts CSS API
	GoogleFontsAPI = "https://fonts.googleapis.com/css2"

	// BunnyFontsAPI is the base URL for the Bunny Fonts CSS API
	BunnyFontsAPI = "https://fonts.bunny.net/css2"

	// FontshareAPI is the base URL for the Fontshare CSS API
	FontshareAPI = "https://api.fontshare.com/v2/css"

	// DefaultFontWeight is the standard font weight used when not specified
	DefaultFontWeight = 400

	// DefaultFontStyle is the standard font style used when not specified
	DefaultFontStyle = "normal"

	// DefaultFontID is the starter font selected when nothing else is
	DefaultFontID = "google-inter"

	// MaxUploadSize caps uploaded font files
	MaxUploadSize = 10 << 20
)

// DefaultQuickWeights are used by the quick constructors when no weights are given
var DefaultQuickWeights = []int{400, 700}

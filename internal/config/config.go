package config

import (
	"github.com/zeromicro/go-zero/mcp"
	"github.com/zeromicro/go-zero/rest"
)

// Config holds the server configuration.
type Config struct {
	mcp.McpConf

	UI       UIConfig       `json:",optional"`
	API      APIConfig      `json:",optional"`
	Catalogs CatalogsConfig `json:",optional"`
	Storage  StorageConfig  `json:",optional"`
	Database DatabaseConfig `json:",optional"`
	Google   GoogleConfig   `json:",optional"`
	Refresh  RefreshConfig  `json:",optional"`
	Loader   LoaderConfig   `json:",optional"`
}

// UIConfig holds the Web UI server settings.
type UIConfig struct {
	rest.RestConf
}

// APIConfig holds the REST API server settings.
type APIConfig struct {
	rest.RestConf
}

// CatalogsConfig holds curated catalog settings. An empty Dir serves the
// catalogs compiled into the binary.
type CatalogsConfig struct {
	Dir              string `json:",optional"`
	Watch            bool   `json:",default=false"`
	FetchRateLimit   int    `json:",default=30"` // full catalog fetches per minute
	RestorePersisted bool   `json:",default=true"`
}

// StorageConfig selects where the collection document lives.
type StorageConfig struct {
	Driver string `json:",default=sqlite,options=sqlite|file"`
	Path   string `json:",default=./.data/collection.json"`
}

// DatabaseConfig holds database settings.
type DatabaseConfig struct {
	Path string `json:",default=./.data/fontdue.db"`
}

// GoogleConfig seeds the Google Fonts API key when the collection has none.
type GoogleConfig struct {
	APIKey string `json:",optional,env=GOOGLE_FONTS_API_KEY"`
}

// RefreshConfig holds catalog refresh worker settings.
type RefreshConfig struct {
	Workers      int    `json:",default=1"`
	MaxRetries   int    `json:",default=3"`
	RetryBackoff string `json:",default=1m"`
	MaxBackoff   string `json:",default=1h"`
	RateLimit    int    `json:",default=6"`
}

// LoaderConfig holds stylesheet verification settings.
type LoaderConfig struct {
	Timeout   string  `json:",default=10s"`
	RateLimit float64 `json:",default=5"` // stylesheet fetches per second
	Verify    bool    `json:",default=true"`
	CacheDir  string  `json:",optional"`
}

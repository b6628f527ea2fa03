// Package config provides configuration utilities for the fontdue library packages.
package config

import (
	"os"
	"path/filepath"
)

// GetDataPath returns the data directory path.
// It checks for DATA_PATH environment variable, otherwise uses a default.
func GetDataPath() string {
	if path := os.Getenv("DATA_PATH"); path != "" {
		return path
	}

	// Default to current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return filepath.Join(cwd, ".data")
}

// GetCatalogPath returns the curated catalog directory.
// An empty result means the catalogs embedded in the binary are used.
func GetCatalogPath() string {
	return os.Getenv("FONTDUE_CATALOG_PATH")
}

// GetCollectionPath returns the path of the persisted collection document.
// It checks for FONTDUE_COLLECTION_PATH environment variable, otherwise uses a default.
func GetCollectionPath() string {
	if path := os.Getenv("FONTDUE_COLLECTION_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "collection.json")
}

// GetFontCachePath returns the cache directory used for the system font index.
// It checks for FONT_PATH environment variable, otherwise uses a default.
func GetFontCachePath() string {
	if path := os.Getenv("FONT_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "fonts")
}

// GetDatabasePath returns the SQLite database path.
func GetDatabasePath() string {
	if path := os.Getenv("FONTDUE_DB_PATH"); path != "" {
		return path
	}

	return filepath.Join(GetDataPath(), "fontdue.db")
}

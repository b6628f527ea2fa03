// Package loader materializes collection fonts into a rendering host and
// tracks which fonts are loaded.
package loader

import "context"

// Handle is an injected resource that can be removed again
type Handle interface {
	Remove()
}

// Host is the rendering environment fonts are loaded into
type Host interface {
	// InjectStylesheet adds a stylesheet reference and returns once it has
	// loaded or failed.
	InjectStylesheet(ctx context.Context, id, url string) (Handle, error)
	// InjectStyle adds an inline style rule.
	InjectStyle(id, css string) Handle
	// FontsReady waits until queued font resources are usable.
	FontsReady(ctx context.Context) error
	// SetProperty sets a document-wide CSS custom property.
	SetProperty(name, value string)
}

// LocalProber reports whether a family is installed on the host
type LocalProber interface {
	Resolvable(ctx context.Context, family string) (bool, error)
}

package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/fontscan"
	fontdue "github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrPermissionDenied is returned when the system font directories cannot be read
var ErrPermissionDenied = errors.New("permission denied to access local fonts")

// SystemFonts enumerates the fonts installed on the host. The scan runs
// once and is indexed in cacheDir.
type SystemFonts struct {
	cacheDir string
	scan     func(cacheDir string) ([]fontscan.Footprint, error)

	mu       sync.Mutex
	families []fontdue.LocalDescriptor
	index    map[string]struct{}
}

// NewSystemFonts creates a system font provider caching its index in cacheDir
func NewSystemFonts(cacheDir string) *SystemFonts {
	return &SystemFonts{
		cacheDir: cacheDir,
		scan: func(dir string) ([]fontscan.Footprint, error) {
			return fontscan.SystemFonts(log.Printf{}, dir)
		},
	}
}

// Enumerate returns one descriptor per installed family, sorted by family
func (s *SystemFonts) Enumerate(ctx context.Context) ([]fontdue.LocalDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.families != nil {
		return slices.Clone(s.families), nil
	}

	footprints, err := s.scan(s.cacheDir)
	if errors.Is(err, fs.ErrPermission) {
		return nil, ErrPermissionDenied
	}
	if err != nil {
		return nil, err
	}

	families := make([]fontdue.LocalDescriptor, 0, len(footprints)/4)
	index := make(map[string]struct{}, len(footprints))
	for _, fp := range footprints {
		if fp.Family == "" {
			continue
		}
		if _, seen := index[fp.Family]; seen {
			continue
		}
		index[fp.Family] = struct{}{}
		families = append(families, describe(fp))
	}

	c := collate.New(language.Und)
	slices.SortFunc(families, func(a, b fontdue.LocalDescriptor) int {
		return c.CompareString(a.Family, b.Family)
	})

	s.families = families
	s.index = index
	log.Info("Indexed system fonts", "families", len(families), "faces", len(footprints))
	return slices.Clone(families), nil
}

// Resolvable reports whether family is installed
func (s *SystemFonts) Resolvable(ctx context.Context, family string) (bool, error) {
	if _, err := s.Enumerate(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[font.NormalizeFamily(family)]
	return ok, nil
}

// describe reads the display family from the font file, falling back to
// the normalized family title-cased when the file cannot be read.
func describe(fp fontscan.Footprint) fontdue.LocalDescriptor {
	d := fontdue.LocalDescriptor{
		Family: cases.Title(language.Und).String(fp.Family),
		Style:  "normal",
	}
	if fp.Aspect.Style == font.StyleItalic {
		d.Style = "italic"
	}

	if family, ok := readFamily(fp.Location); ok {
		d.Family = family
	}
	d.FullName = d.Family
	return d
}

func readFamily(loc fontscan.Location) (string, bool) {
	f, err := os.Open(loc.File)
	if err != nil {
		return "", false
	}
	defer f.Close()

	loaders, err := ot.NewLoaders(f)
	if err != nil || int(loc.Index) >= len(loaders) {
		return "", false
	}
	desc, _ := font.Describe(loaders[loc.Index], nil)
	if desc.Family == "" {
		return "", false
	}
	return desc.Family, true
}

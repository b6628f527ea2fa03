package catalog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/log"
)

// Watch invalidates curated catalogs whenever their files in dir change,
// so the next LoadCurated reads the new contents. It blocks until ctx is
// done.
func (s *Store) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	log.Info("Watching catalog directory", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if source, ok := curatedSource(filepath.Base(ev.Name)); ok {
				s.Invalidate(source, TierCurated)
				log.Info("Curated catalog changed", "source", source, "op", ev.Op.String())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Catalog watcher error", "error", err)
		}
	}
}

func curatedSource(name string) (font.Source, bool) {
	base, ok := strings.CutSuffix(name, "-curated.json")
	if !ok {
		return "", false
	}
	source, err := font.ParseSource(base)
	if err != nil || !source.IsCatalog() {
		return "", false
	}
	return source, true
}

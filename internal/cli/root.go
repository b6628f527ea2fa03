// Package cli implements the fontdue command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/config"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/joeblew999/fontdue/pkg/store"
	"github.com/spf13/cobra"
)

// App carries the services shared by every command.
type App struct {
	StorePath  string
	CatalogDir string
	CacheDir   string
	APIKey     string
	JSON       bool

	Theme      *Theme
	Catalogs   *catalog.Store
	Collection *collection.Manager
	LocalFonts *loader.SystemFonts
}

func (a *App) setup() {
	var opts []catalog.Option
	if a.CatalogDir != "" {
		opts = append(opts, catalog.WithResources(os.DirFS(a.CatalogDir)))
	}
	a.Catalogs = catalog.NewStore(opts...)
	a.Collection = collection.NewManager(store.NewFileStoreAt(a.StorePath), a.Catalogs)
	a.LocalFonts = loader.NewSystemFonts(a.CacheDir)
	a.Theme = NewTheme()
}

// collection returns the manager after making sure a collection exists.
func (a *App) collection(ctx context.Context) (*collection.Manager, error) {
	if _, err := a.Collection.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("open collection %s: %w", a.StorePath, err)
	}
	return a.Collection, nil
}

func (a *App) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fontdue",
		Short: "Manage a font collection from the terminal",
		Long: `fontdue browses the Google Fonts, Bunny Fonts and Fontshare catalogs
and keeps a personal collection of fonts in a JSON document.

The collection is seeded with starter fonts on first use.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			app.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.StorePath, "store", config.GetCollectionPath(), "collection document path")
	flags.StringVar(&app.CatalogDir, "catalogs", config.GetCatalogPath(), "curated catalog directory (default: built in)")
	flags.StringVar(&app.CacheDir, "cache", config.GetFontCachePath(), "system font index directory")
	flags.StringVar(&app.APIKey, "api-key", os.Getenv("GOOGLE_FONTS_API_KEY"), "Google Fonts API key for full catalogs")
	flags.BoolVar(&app.JSON, "json", false, "output as JSON")

	root.AddCommand(
		newCatalogCmd(app),
		newFontsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newLocalCmd(app),
		newSchemaCmd(app),
	)
	return root
}

// Execute runs the command line and reports errors on stderr.
func Execute() error {
	app := &App{}
	root := NewRootCmd(app)
	if err := root.Execute(); err != nil {
		theme := app.Theme
		if theme == nil {
			theme = NewTheme()
		}
		fmt.Fprintln(root.ErrOrStderr(), theme.ErrorStyle.Render("Error: "+err.Error()))
		return err
	}
	return nil
}

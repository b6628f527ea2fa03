package cli

import (
	"fmt"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/spf13/cobra"
)

type catalogFlags struct {
	source   string
	category string
	full     bool
	limit    int
}

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse font catalogs",
	}

	var f catalogFlags
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.source, "source", "s", string(font.SourceGoogle), "catalog source: google, bunny or fontshare")
	pf.BoolVar(&f.full, "full", false, "use the full remote catalog instead of the curated one")

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search a catalog by name or family",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd, app, f)
			if err != nil {
				return err
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			fonts := catalog.Search(c, query, catalog.Filters{Category: f.category})
			if f.limit > 0 && len(fonts) > f.limit {
				fonts = fonts[:f.limit]
			}

			if app.JSON {
				return app.printJSON(cmd.OutOrStdout(), fonts)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, app.Theme.Title.Render(fmt.Sprintf("%s (%d fonts)", c.SourceName, len(fonts))))
			for _, cf := range fonts {
				fmt.Fprintln(out, app.Theme.CatalogLine(cf))
			}
			return nil
		},
	}
	search.Flags().StringVarP(&f.category, "category", "c", "", "restrict to one category")
	search.Flags().IntVarP(&f.limit, "limit", "n", 0, "maximum results (0 for all)")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List the categories present in a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog(cmd, app, f)
			if err != nil {
				return err
			}
			cats := catalog.Categories(c)
			if app.JSON {
				return app.printJSON(cmd.OutOrStdout(), cats)
			}
			for _, name := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.AddCommand(search, categories)
	return cmd
}

func loadCatalog(cmd *cobra.Command, app *App, f catalogFlags) (*catalog.Catalog, error) {
	source, err := font.ParseSource(f.source)
	if err != nil {
		return nil, err
	}
	if !source.IsCatalog() {
		return nil, fmt.Errorf("%w: %s has no catalog", font.ErrUnknownSource, source)
	}
	if !f.full {
		return app.Catalogs.LoadCurated(source), nil
	}
	return app.Catalogs.FetchFull(cmd.Context(), source, app.APIKey)
}

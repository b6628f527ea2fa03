package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/spf13/cobra"
)

// ErrFontExists is returned when adding a font whose id is already in the collection.
var ErrFontExists = errors.New("font already in collection")

func newFontsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "Manage the font collection",
	}
	cmd.AddCommand(
		newFontsListCmd(app),
		newFontsAddCmd(app),
		newFontsRemoveCmd(app),
		newFontsFavoriteCmd(app),
	)
	return cmd
}

func newFontsListCmd(app *App) *cobra.Command {
	var (
		source    string
		favorites bool
	)
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List the fonts in the collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.collection(ctx)
			if err != nil {
				return err
			}

			var fonts []font.AppFont
			if len(args) == 1 {
				fonts, err = m.Search(ctx, args[0])
			} else {
				fonts, err = m.GetAllFonts(ctx)
			}
			if err != nil {
				return err
			}

			filtered := make([]font.AppFont, 0, len(fonts))
			for _, f := range fonts {
				if source != "" && string(f.Source) != source {
					continue
				}
				if favorites && !f.Favorite {
					continue
				}
				filtered = append(filtered, f)
			}

			if app.JSON {
				return app.printJSON(cmd.OutOrStdout(), filtered)
			}

			selected, _, err := m.SelectedFont(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(filtered) == 0 {
				fmt.Fprintln(out, app.Theme.Subtle.Render("No fonts"))
				return nil
			}
			for _, f := range filtered {
				fmt.Fprintln(out, app.Theme.FontLine(f, f.ID == selected.ID))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "only fonts from this source")
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "only favorites")
	return cmd
}

func newFontsAddCmd(app *App) *cobra.Command {
	var (
		family  string
		url     string
		weights []int
	)
	cmd := &cobra.Command{
		Use:   "add <source> [id|name|file]",
		Short: "Add a font to the collection",
		Long: `Add a font to the collection.

  fonts add google lora               catalog font by catalog id
  fonts add bunny --family "Open Sans" catalog font by family name
  fonts add cdn Brand --url https://example.com/brand.css
  fonts add system Helvetica
  fonts add upload ./MyFont.woff2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := font.ParseSource(args[0])
			if err != nil {
				return err
			}
			arg := ""
			if len(args) == 2 {
				arg = args[1]
			}

			f, err := buildFont(app, source, arg, family, url, weights)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			m, err := app.collection(ctx)
			if err != nil {
				return err
			}
			added, ok, err := m.AddFont(ctx, f)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrFontExists, f.ID)
			}

			if app.JSON {
				return app.printJSON(cmd.OutOrStdout(), added)
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render("Added "+added.Name)+" "+app.Theme.Subtle.Render(added.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "family name, for catalog sources without an id or to override a name")
	cmd.Flags().StringVar(&url, "url", "", "stylesheet URL for cdn fonts")
	cmd.Flags().IntSliceVar(&weights, "weights", nil, "weights for fonts added by family")
	return cmd
}

func buildFont(app *App, source font.Source, arg, family, url string, weights []int) (font.AppFont, error) {
	switch source {
	case font.SourceGoogle, font.SourceBunny, font.SourceFontshare:
		if arg != "" {
			return app.Catalogs.Resolve(source, arg)
		}
		if strings.TrimSpace(family) == "" {
			return font.AppFont{}, errors.New("a catalog id or --family is required")
		}
		return font.NewQuickCatalogFont(source, strings.TrimSpace(family), weights)

	case font.SourceCDN:
		if url == "" {
			return font.AppFont{}, errors.New("--url is required for cdn fonts")
		}
		if arg == "" {
			return font.AppFont{}, errors.New("a name is required for cdn fonts")
		}
		if family == "" {
			family = arg
		}
		return font.NewCDNFont(arg, family, url), nil

	case font.SourceSystem, font.SourceLocal:
		if family == "" {
			family = arg
		}
		if family == "" {
			return font.AppFont{}, errors.New("a family is required")
		}
		if source == font.SourceSystem {
			return font.NewSystemFont(family), nil
		}
		return font.NewLocalFont(font.LocalDescriptor{Family: family}), nil

	case font.SourceUpload:
		if arg == "" {
			return font.AppFont{}, errors.New("a font file is required")
		}
		return readUpload(arg, family)
	}
	return font.AppFont{}, fmt.Errorf("%w: %q", font.ErrUnknownSource, source)
}

func readUpload(path, name string) (font.AppFont, error) {
	filename := filepath.Base(path)
	if !font.IsValidFontFile(filename, "") {
		return font.AppFont{}, fmt.Errorf("%w: %s", font.ErrInvalidFontFile, filename)
	}

	file, err := os.Open(path)
	if err != nil {
		return font.AppFont{}, err
	}
	defer file.Close()

	up, err := font.ReadFontFile(file, filename)
	if err != nil {
		return font.AppFont{}, err
	}
	if name == "" {
		name = font.ExtractFontName(filename)
	}
	return font.NewUploadedFont(name, name, up.DataURL, up.Format), nil
}

func newFontsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a font from the collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.collection(ctx)
			if err != nil {
				return err
			}
			ok, err := m.DeleteFont(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("font not found: %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render("Removed "+args[0]))
			return nil
		},
	}
}

func newFontsFavoriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav"},
		Short:   "Toggle the favorite flag of a font",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := app.collection(ctx)
			if err != nil {
				return err
			}
			ok, err := m.ToggleFavorite(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("font not found: %s", args[0])
			}

			f, _, err := m.GetFont(ctx, args[0])
			if err != nil {
				return err
			}
			state := "Unfavorited "
			if f.Favorite {
				state = "Favorited "
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render(state+f.Name))
			return nil
		},
	}
}

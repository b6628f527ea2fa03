package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m, err := app.collection(ctx)
			if err != nil {
				return err
			}
			data, err := m.Export(ctx)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), app.Theme.SuccessStyle.Render(fmt.Sprintf("Exported to %s (%d bytes)", out, len(data))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the collection with an exported one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := app.Collection.Import(cmd.Context(), data); err != nil {
				return err
			}
			fonts, err := app.Collection.GetAllFonts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render(fmt.Sprintf("Imported %d fonts", len(fonts))))
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var clearAll bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the collection to the starter fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if clearAll {
				if _, err := app.collection(ctx); err != nil {
					return err
				}
				if err := app.Collection.ClearAllFonts(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render("Removed all fonts"))
				return nil
			}

			if err := app.Collection.ResetToDefaults(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render("Collection reset to defaults"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every font but keep the settings")
	return cmd
}

func newLocalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "List the font families installed on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			families, err := app.LocalFonts.Enumerate(cmd.Context())
			if err != nil {
				return err
			}
			if app.JSON {
				return app.printJSON(cmd.OutOrStdout(), families)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, app.Theme.Title.Render(fmt.Sprintf("%d installed families", len(families))))
			for _, d := range families {
				line := d.Family
				if d.Style != "" && d.Style != "normal" {
					line += " " + app.Theme.Subtle.Render(d.Style)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// DocumentSchema returns the JSON Schema of an exported collection.
func DocumentSchema() *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&collection.Document{})
	schema.ID = "https://github.com/joeblew999/fontdue/collection.schema.json"
	schema.Title = "Fontdue collection"
	schema.Description = "A font collection as written by export and accepted by import"
	return schema
}

func newSchemaCmd(_ *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the collection document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.MarshalIndent(DocumentSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

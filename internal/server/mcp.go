package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/joeblew999/fontdue/internal/logic/catalogs"
	"github.com/joeblew999/fontdue/internal/logic/fonts"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/zeromicro/go-zero/mcp"
)

// RegisterMCPTools registers all MCP tools for the font collection.
func RegisterMCPTools(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	registerSearchCatalogTool(s, svcCtx)
	registerListFontsTool(s, svcCtx)
	registerAddCatalogFontTool(s, svcCtx)
	registerSelectFontTool(s, svcCtx)
	registerExportCollectionTool(s, svcCtx)
	registerCollectionResource(s, svcCtx)
}

func registerSearchCatalogTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "search_catalog",
		Description: "Search a font catalog (google, bunny or fontshare) by name, optionally filtered by category. Returns matching catalog fonts.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": "Catalog source: google, bunny or fontshare",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Case-insensitive name filter (e.g., mono, serif display)",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Category filter (sans-serif, serif, monospace, display, handwriting); omit for all",
				},
				"tier": map[string]any{
					"type":        "string",
					"description": "curated (default) or full; full requires network access and a Google Fonts key for google",
				},
			},
			Required: []string{"source"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Source   string `json:"source"`
				Query    string `json:"query,optional"`
				Category string `json:"category,optional"`
				Tier     string `json:"tier,optional"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			l := catalogs.NewCatalogsLogic(ctx, svcCtx)
			resp, err := l.Catalog(&types.CatalogRequest{
				Source:   args.Source,
				Tier:     args.Tier,
				Query:    args.Query,
				Category: args.Category,
			})
			if err != nil {
				return nil, fmt.Errorf("search failed: %w", err)
			}

			results := make([]map[string]any, 0, len(resp.Fonts))
			for _, f := range resp.Fonts {
				results = append(results, map[string]any{
					"id":        f.ID,
					"name":      f.Name,
					"category":  f.Category,
					"weights":   f.Weights,
					"hasItalic": f.HasItalic,
				})
			}

			return map[string]any{
				"source": resp.Source,
				"tier":   resp.Tier,
				"fonts":  results,
				"count":  len(results),
			}, nil
		},
	})
}

func registerListFontsTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "list_fonts",
		Description: "List the fonts in the user's collection, optionally filtered by a name query or source.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Case-insensitive name or family filter",
				},
				"source": map[string]any{
					"type":        "string",
					"description": "Source filter (google, bunny, fontshare, cdn, system, local, upload)",
				},
			},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Query  string `json:"query,optional"`
				Source string `json:"source,optional"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			l := fonts.NewFontsLogic(ctx, svcCtx)
			resp, err := l.List(&types.FontListRequest{Query: args.Query, Source: args.Source})
			if err != nil {
				return nil, fmt.Errorf("list failed: %w", err)
			}

			selected := ""
			if f, err := l.Selected(); err == nil {
				selected = f.ID
			}

			results := make([]map[string]any, 0, len(resp.Fonts))
			for _, f := range resp.Fonts {
				results = append(results, map[string]any{
					"id":       f.ID,
					"name":     f.Name,
					"source":   f.Source,
					"category": f.Category,
					"favorite": f.Favorite,
					"selected": f.ID == selected,
				})
			}

			return map[string]any{
				"fonts": results,
				"count": len(results),
			}, nil
		},
	})
}

func registerAddCatalogFontTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "add_catalog_font",
		Description: "Add a font from a catalog to the collection, by catalog id (from search_catalog) or by family name.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": "Catalog source: google, bunny or fontshare",
				},
				"id": map[string]any{
					"type":        "string",
					"description": "Catalog font id (e.g., inter, jetbrains-mono)",
				},
				"family": map[string]any{
					"type":        "string",
					"description": "Family name, used when the font is not in a cached catalog",
				},
				"weights": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer"},
					"description": "Weights to request with family (default 400 and 700)",
				},
			},
			Required: []string{"source"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				Source  string `json:"source"`
				ID      string `json:"id,optional"`
				Family  string `json:"family,optional"`
				Weights []int  `json:"weights,optional"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			l := fonts.NewFontsLogic(ctx, svcCtx)
			f, err := l.AddCatalog(&types.AddCatalogFontRequest{
				Source:  args.Source,
				Id:      args.ID,
				Family:  args.Family,
				Weights: args.Weights,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to add font: %w", err)
			}

			return map[string]any{
				"id":     f.ID,
				"name":   f.Name,
				"source": f.Source,
				"url":    f.URL,
				"status": "added",
			}, nil
		},
	})
}

func registerSelectFontTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "select_font",
		Description: "Select a collection font as the preview font.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "Collection font id returned from list_fonts",
				},
			},
			Required: []string{"id"},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			var args struct {
				ID string `json:"id"`
			}
			if err := mcp.ParseArguments(p, &args); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			l := fonts.NewFontsLogic(ctx, svcCtx)
			f, err := l.Select(&types.SelectFontRequest{Id: args.ID})
			if err != nil {
				return nil, fmt.Errorf("failed to select font: %w", err)
			}
			svcCtx.Loader.ApplyPreviewFont(*f)

			return map[string]any{
				"id":       f.ID,
				"name":     f.Name,
				"fallback": font.PreviewFamily(*f),
			}, nil
		},
	})
}

func registerExportCollectionTool(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterTool(mcp.Tool{
		Name:        "export_collection",
		Description: "Export the whole collection (fonts and settings) as JSON.",
		InputSchema: mcp.InputSchema{
			Properties: map[string]any{},
		},
		Handler: func(ctx context.Context, p map[string]any) (any, error) {
			data, err := fonts.NewFontsLogic(ctx, svcCtx).Export()
			if err != nil {
				return nil, fmt.Errorf("export failed: %w", err)
			}
			return map[string]any{
				"collection": string(data),
				"size":       len(data),
			}, nil
		},
	})
}

func registerCollectionResource(s mcp.McpServer, svcCtx *svc.ServiceContext) {
	s.RegisterResource(mcp.Resource{
		Name:        "collection",
		URI:         "fontdue://collection",
		Description: "Fonts in the user's collection",
		MimeType:    "text/plain",
		Handler: func(ctx context.Context) (mcp.ResourceContent, error) {
			resp, err := fonts.NewFontsLogic(ctx, svcCtx).List(&types.FontListRequest{})
			if err != nil {
				return mcp.ResourceContent{}, err
			}

			var b strings.Builder
			b.WriteString("Fonts in collection:\n")
			for _, f := range resp.Fonts {
				fmt.Fprintf(&b, "- %s (%s, %s)\n", f.Name, f.Source, f.ID)
			}

			return mcp.ResourceContent{
				URI:      "fontdue://collection",
				MimeType: "text/plain",
				Text:     b.String(),
			}, nil
		},
	})
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	catalogs "github.com/joeblew999/fontdue/internal/handler/catalogs"
	fonts "github.com/joeblew999/fontdue/internal/handler/fonts"
	loading "github.com/joeblew999/fontdue/internal/handler/loading"
	"github.com/joeblew999/fontdue/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodGet, Path: "/fonts", Handler: fonts.ListFontsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/fonts/grouped", Handler: fonts.GroupedFontsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/fonts/:id", Handler: fonts.GetFontHandler(serverCtx)},
			{Method: http.MethodPut, Path: "/fonts/:id", Handler: fonts.UpdateFontHandler(serverCtx)},
			{Method: http.MethodDelete, Path: "/fonts/:id", Handler: fonts.DeleteFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/fonts/:id/favorite", Handler: fonts.ToggleFavoriteHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/fonts/catalog", Handler: fonts.AddCatalogFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/fonts/cdn", Handler: fonts.AddCdnFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/fonts/local", Handler: fonts.AddLocalFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/fonts/upload", Handler: fonts.UploadFontHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/selected", Handler: fonts.GetSelectedHandler(serverCtx)},
			{Method: http.MethodPut, Path: "/selected", Handler: fonts.SetSelectedHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/settings", Handler: fonts.GetSettingsHandler(serverCtx)},
			{Method: http.MethodPut, Path: "/settings", Handler: fonts.UpdateSettingsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/export", Handler: fonts.ExportHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/import", Handler: fonts.ImportHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/reset", Handler: fonts.ResetHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/clear", Handler: fonts.ClearHandler(serverCtx)},
		},
		rest.WithPrefix("/api/v1"),
	)

	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodGet, Path: "/catalogs/persisted", Handler: catalogs.PersistedCatalogsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/catalogs/:source", Handler: catalogs.GetCatalogHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/catalogs/:source/categories", Handler: catalogs.GetCategoriesHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/catalogs/:source/refresh", Handler: catalogs.RefreshCatalogHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/jobs", Handler: catalogs.ListJobsHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/jobs/:id", Handler: catalogs.GetJobHandler(serverCtx)},
		},
		rest.WithPrefix("/api/v1"),
	)

	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodPost, Path: "/loader/fonts/:id/load", Handler: loading.LoadFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/loader/fonts/:id/unload", Handler: loading.UnloadFontHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/loader/load-all", Handler: loading.LoadAllHandler(serverCtx)},
			{Method: http.MethodPost, Path: "/loader/preview", Handler: loading.PreviewHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/loader/state", Handler: loading.LoaderStateHandler(serverCtx)},
			{Method: http.MethodGet, Path: "/local-fonts", Handler: loading.LocalFontsHandler(serverCtx)},
		},
		rest.WithPrefix("/api/v1"),
	)
}

package ui

import (
	"net/http"
	"strings"

	"github.com/joeblew999/fontdue/internal/logic/catalogs"
	"github.com/joeblew999/fontdue/internal/logic/fonts"
	"github.com/joeblew999/fontdue/internal/logic/loading"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/starfederation/datastar-go/datastar"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/pathvar"
	g "maragu.dev/gomponents"
)

// Handlers provides HTTP handlers for the UI.
type Handlers struct {
	svcCtx *svc.ServiceContext
}

// NewHandlers creates new UI handlers.
func NewHandlers(svcCtx *svc.ServiceContext) *Handlers {
	return &Handlers{svcCtx: svcCtx}
}

// Routes returns the standard UI routes for registration with rest.Server.
func (h *Handlers) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.handleCollection},
		{Method: http.MethodGet, Path: "/catalog", Handler: h.handleCatalog},
		{Method: http.MethodGet, Path: "/preview", Handler: h.handlePreview},
		{Method: http.MethodGet, Path: "/jobs", Handler: h.handleJobs},
	}
}

// SSERoutes returns the SSE-based API routes (require rest.WithSSE option).
func (h *Handlers) SSERoutes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/api/ui/catalog", Handler: h.handleCatalogItems},
		{Method: http.MethodPost, Path: "/api/ui/catalog/:source/:id/add", Handler: h.handleAddCatalogFont},
		{Method: http.MethodPost, Path: "/api/ui/fonts/:id/favorite", Handler: h.handleFavorite},
		{Method: http.MethodPost, Path: "/api/ui/fonts/:id/select", Handler: h.handleSelect},
		{Method: http.MethodPost, Path: "/api/ui/fonts/:id/delete", Handler: h.handleDelete},
		{Method: http.MethodPost, Path: "/api/ui/reset", Handler: h.handleReset},
		{Method: http.MethodGet, Path: "/api/ui/jobs", Handler: h.handleJobItems},
		{Method: http.MethodPost, Path: "/api/ui/catalogs/:source/refresh", Handler: h.handleRefresh},
	}
}

func (h *Handlers) handleCollection(w http.ResponseWriter, r *http.Request) {
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	groups, err := l.Grouped()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	settings, err := l.Settings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Sample glyphs need every font of the collection in the head
	all, err := l.List(&types.FontListRequest{})
	if err == nil {
		h.svcCtx.Loader.LoadFonts(r.Context(), all.Fonts)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := CollectionPage(*groups, settings.SelectedFontID, h.svcCtx.Document.Head()).Render(w); err != nil {
		logx.Errorf("render collection page: %v", err)
	}
}

func (h *Handlers) handleCatalog(w http.ResponseWriter, r *http.Request) {
	seen := make(map[string]struct{})
	var categories []string
	for _, source := range font.CatalogSources {
		for _, c := range catalog.Categories(h.svcCtx.Catalogs.LoadCurated(source)) {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				categories = append(categories, c)
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := CatalogPage(categories).Render(w); err != nil {
		logx.Errorf("render catalog page: %v", err)
	}
}

func (h *Handlers) handlePreview(w http.ResponseWriter, r *http.Request) {
	l := loading.NewLoadingLogic(r.Context(), h.svcCtx)
	state, err := l.Preview()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	selected, err := fonts.NewFontsLogic(r.Context(), h.svcCtx).Selected()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := PreviewPage(*selected, state.Head, state.RootStyle).Render(w); err != nil {
		logx.Errorf("render preview page: %v", err)
	}
}

func (h *Handlers) handleJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := JobsPage().Render(w); err != nil {
		logx.Errorf("render jobs page: %v", err)
	}
}

func (h *Handlers) handleCatalogItems(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Source   string `json:"source"`
		Tier     string `json:"tier"`
		Query    string `json:"query"`
		Category string `json:"category"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	l := catalogs.NewCatalogsLogic(r.Context(), h.svcCtx)
	resp, err := l.Catalog(&types.CatalogRequest{
		Source:   signals.Source,
		Tier:     signals.Tier,
		Query:    signals.Query,
		Category: signals.Category,
	})
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patch(sse, CatalogItems(font.Source(resp.Source), resp.Fonts))
	if err := sse.MarshalAndPatchSignals(map[string]any{"loading": false, "result": ""}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) handleAddCatalogFont(w http.ResponseWriter, r *http.Request) {
	vars := pathvar.Vars(r)
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	f, err := l.AddCatalog(&types.AddCatalogFontRequest{Source: vars["source"], Id: vars["id"]})
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"result": "Error: " + err.Error()})
		return
	}
	h.sendDatastarSignals(w, r, map[string]any{"result": "Added " + f.Name + " to your collection"})
}

func (h *Handlers) handleFavorite(w http.ResponseWriter, r *http.Request) {
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	_, err := l.ToggleFavorite(&types.FontPathRequest{Id: pathvar.Vars(r)["id"]})
	h.patchCollection(w, r, err, "")
}

func (h *Handlers) handleSelect(w http.ResponseWriter, r *http.Request) {
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	f, err := l.Select(&types.SelectFontRequest{Id: pathvar.Vars(r)["id"]})
	result := ""
	if err == nil {
		result = "Selected " + f.Name
	}
	h.patchCollection(w, r, err, result)
}

func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	_, err := l.Delete(&types.FontPathRequest{Id: pathvar.Vars(r)["id"]})
	h.patchCollection(w, r, err, "")
}

func (h *Handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	_, err := l.Reset()
	h.patchCollection(w, r, err, "Collection reset to the starter fonts")
}

func (h *Handlers) patchCollection(w http.ResponseWriter, r *http.Request, err error, result string) {
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"result": "Error: " + err.Error()})
		return
	}

	l := fonts.NewFontsLogic(r.Context(), h.svcCtx)
	groups, err := l.Grouped()
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}
	settings, err := l.Settings()
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patch(sse, CollectionGroups(*groups, settings.SelectedFontID))
	if err := sse.MarshalAndPatchSignals(map[string]any{
		"selected": settings.SelectedFontID,
		"result":   result,
	}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) handleJobItems(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Filter string `json:"filter"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	l := catalogs.NewCatalogsLogic(r.Context(), h.svcCtx)
	resp, err := l.Jobs(&types.JobListRequest{Status: signals.Filter, Limit: 50})
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	// Render job rows as HTML fragment and patch into #job-items
	sse := datastar.NewSSE(w, r)
	h.patch(sse, JobItems(resp.Jobs))
	if err := sse.MarshalAndPatchSignals(map[string]any{
		"stats":   resp.Stats,
		"loading": false,
	}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	l := catalogs.NewCatalogsLogic(r.Context(), h.svcCtx)
	job, err := l.Refresh(&types.RefreshRequest{Source: pathvar.Vars(r)["source"]})
	if err != nil {
		h.sendDatastarSignals(w, r, map[string]any{"result": "Error: " + err.Error()})
		return
	}
	h.sendDatastarSignals(w, r, map[string]any{"result": "Refresh queued with ID: " + job.Id})
}

func (h *Handlers) patch(sse *datastar.ServerSentEventGenerator, node g.Node) {
	var b strings.Builder
	if err := node.Render(&b); err != nil {
		logx.Errorf("render fragment: %v", err)
		return
	}
	if err := sse.PatchElements(b.String()); err != nil {
		logx.Errorf("datastar patch elements: %v", err)
	}
}

func (h *Handlers) sendDatastarSignals(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) sendDatastarError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	h.sendDatastarSignals(w, r, map[string]any{
		"loading": false,
		"result":  "Error: " + msg,
	})
}

package fonts

import (
	"context"
	"strings"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"

	"github.com/zeromicro/go-zero/core/logx"
)

type FontsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewFontsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *FontsLogic {
	return &FontsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *FontsLogic) List(req *types.FontListRequest) (*types.FontListResponse, error) {
	var (
		list []font.AppFont
		err  error
	)
	if req.Query != "" {
		list, err = l.svcCtx.Collection.Search(l.ctx, req.Query)
	} else {
		list, err = l.svcCtx.Collection.GetAllFonts(l.ctx)
	}
	if err != nil {
		return nil, errorx.FromError(err)
	}

	if req.Source != "" {
		source, err := font.ParseSource(req.Source)
		if err != nil {
			return nil, errorx.FromError(err)
		}
		filtered := make([]font.AppFont, 0, len(list))
		for _, f := range list {
			if f.Source == source {
				filtered = append(filtered, f)
			}
		}
		list = filtered
	}

	return &types.FontListResponse{Fonts: list, Total: len(list)}, nil
}

func (l *FontsLogic) Grouped() (*collection.Groups, error) {
	groups, err := l.svcCtx.Collection.Grouped(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return &groups, nil
}

func (l *FontsLogic) Get(req *types.FontPathRequest) (*font.AppFont, error) {
	f, ok, err := l.svcCtx.Collection.GetFont(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("font not found: " + req.Id)
	}
	return &f, nil
}

// AddCatalog adds a catalog font by catalog id, or by family name for
// sources addressable without a catalog lookup.
func (l *FontsLogic) AddCatalog(req *types.AddCatalogFontRequest) (*font.AppFont, error) {
	source, err := font.ParseSource(req.Source)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !source.IsCatalog() {
		return nil, errorx.ErrBadRequest("not a catalog source: " + req.Source)
	}

	var f font.AppFont
	switch {
	case req.Id != "":
		f, err = l.svcCtx.Catalogs.Resolve(source, req.Id)
	case strings.TrimSpace(req.Family) != "":
		f, err = font.NewQuickCatalogFont(source, strings.TrimSpace(req.Family), req.Weights)
	default:
		return nil, errorx.ErrBadRequest("id or family is required")
	}
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return l.add(f)
}

func (l *FontsLogic) AddCdn(req *types.AddCdnFontRequest) (*font.AppFont, error) {
	if req.Url == "" {
		return nil, errorx.ErrBadRequest("url is required")
	}
	family := req.Family
	if family == "" {
		family = req.Name
	}
	return l.add(font.NewCDNFont(req.Name, family, req.Url))
}

func (l *FontsLogic) AddLocal(req *types.AddLocalFontRequest) (*font.AppFont, error) {
	if req.Family == "" {
		return nil, errorx.ErrBadRequest("family is required")
	}
	if req.System {
		return l.add(font.NewSystemFont(req.Family))
	}
	return l.add(font.NewLocalFont(font.LocalDescriptor{Family: req.Family, FullName: req.FullName}))
}

// AddUpload adds an uploaded font. An empty name falls back to the one
// derived from the filename.
func (l *FontsLogic) AddUpload(name string, up font.Upload) (*font.AppFont, error) {
	if name == "" {
		name = font.ExtractFontName(up.Filename)
	}
	return l.add(font.NewUploadedFont(name, name, up.DataURL, up.Format))
}

func (l *FontsLogic) add(f font.AppFont) (*font.AppFont, error) {
	added, ok, err := l.svcCtx.Collection.AddFont(l.ctx, f)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrConflict("font already in collection: " + f.ID)
	}
	l.Infow("Font added", logx.Field("id", added.ID), logx.Field("source", added.Source))
	return &added, nil
}

func (l *FontsLogic) Update(id string, update collection.FontUpdate) (*font.AppFont, error) {
	ok, err := l.svcCtx.Collection.UpdateFont(l.ctx, id, update)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("font not found: " + id)
	}
	return l.Get(&types.FontPathRequest{Id: id})
}

func (l *FontsLogic) Delete(req *types.FontPathRequest) (*types.StatusResponse, error) {
	ok, err := l.svcCtx.Collection.DeleteFont(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("font not found: " + req.Id)
	}
	l.svcCtx.Loader.UnloadFont(req.Id)
	return &types.StatusResponse{Ok: true}, nil
}

func (l *FontsLogic) ToggleFavorite(req *types.FontPathRequest) (*font.AppFont, error) {
	ok, err := l.svcCtx.Collection.ToggleFavorite(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("font not found: " + req.Id)
	}
	return l.Get(req)
}

func (l *FontsLogic) Selected() (*font.AppFont, error) {
	f, ok, err := l.svcCtx.Collection.SelectedFont(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("collection is empty")
	}
	return &f, nil
}

func (l *FontsLogic) Select(req *types.SelectFontRequest) (*font.AppFont, error) {
	if _, err := l.Get(&types.FontPathRequest{Id: req.Id}); err != nil {
		return nil, err
	}
	if _, err := l.svcCtx.Collection.SetSelectedFont(l.ctx, req.Id); err != nil {
		return nil, errorx.FromError(err)
	}
	return l.Selected()
}

func (l *FontsLogic) Settings() (*collection.Settings, error) {
	s, err := l.svcCtx.Collection.Settings(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return &s, nil
}

func (l *FontsLogic) UpdateSettings(update collection.SettingsUpdate) (*collection.Settings, error) {
	if update.Theme != nil && *update.Theme != collection.ThemeDark && *update.Theme != collection.ThemeLight {
		return nil, errorx.ErrBadRequest("theme must be dark or light")
	}
	ok, err := l.svcCtx.Collection.UpdateSettings(l.ctx, update)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.FromError(collection.ErrNoCollection)
	}
	return l.Settings()
}

func (l *FontsLogic) Export() ([]byte, error) {
	data, err := l.svcCtx.Collection.Export(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return data, nil
}

func (l *FontsLogic) Import(data []byte) (*types.StatusResponse, error) {
	if err := l.svcCtx.Collection.Import(l.ctx, data); err != nil {
		return nil, errorx.FromError(err)
	}
	l.svcCtx.Loader.Reset()
	l.Info("Collection imported")
	return &types.StatusResponse{Ok: true}, nil
}

func (l *FontsLogic) Reset() (*types.StatusResponse, error) {
	if err := l.svcCtx.Collection.ResetToDefaults(l.ctx); err != nil {
		return nil, errorx.FromError(err)
	}
	l.svcCtx.Loader.Reset()
	l.Info("Collection reset to defaults")
	return &types.StatusResponse{Ok: true}, nil
}

func (l *FontsLogic) Clear() (*types.StatusResponse, error) {
	if err := l.svcCtx.Collection.ClearAllFonts(l.ctx); err != nil {
		return nil, errorx.FromError(err)
	}
	l.svcCtx.Loader.Reset()
	return &types.StatusResponse{Ok: true}, nil
}

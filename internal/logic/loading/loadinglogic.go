package loading

import (
	"context"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type LoadingLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLoadingLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LoadingLogic {
	return &LoadingLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *LoadingLogic) Load(req *types.FontPathRequest) (*types.LoadStateResponse, error) {
	f, ok, err := l.svcCtx.Collection.GetFont(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("font not found: " + req.Id)
	}

	if err := l.svcCtx.Loader.LoadFont(l.ctx, f); err != nil {
		return nil, errorx.FromError(err)
	}
	return l.state(req.Id), nil
}

func (l *LoadingLogic) Unload(req *types.FontPathRequest) (*types.LoadStateResponse, error) {
	l.svcCtx.Loader.UnloadFont(req.Id)
	return l.state(req.Id), nil
}

// LoadAll loads the whole collection, reporting how many fonts failed.
func (l *LoadingLogic) LoadAll() (*types.BatchLoadResponse, error) {
	fonts, err := l.svcCtx.Collection.GetAllFonts(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	res := l.svcCtx.Loader.LoadFonts(l.ctx, fonts)
	return &types.BatchLoadResponse{Loaded: res.Loaded, Failed: res.Failed}, nil
}

// Preview loads the selected font and points the preview properties at it.
func (l *LoadingLogic) Preview() (*types.LoaderStateResponse, error) {
	f, ok, err := l.svcCtx.Collection.SelectedFont(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	if !ok {
		return nil, errorx.ErrNotFound("collection is empty")
	}
	if err := l.svcCtx.Loader.LoadFont(l.ctx, f); err != nil {
		// the fallback stack still renders
		l.Errorf("Loading preview font %s: %v", f.ID, err)
	}
	l.svcCtx.Loader.ApplyPreviewFont(f)
	return l.State()
}

func (l *LoadingLogic) State() (*types.LoaderStateResponse, error) {
	return &types.LoaderStateResponse{
		Loaded:    l.svcCtx.Loader.Loaded(),
		Head:      l.svcCtx.Document.Head(),
		RootStyle: l.svcCtx.Document.RootStyle(),
	}, nil
}

func (l *LoadingLogic) LocalFonts() (*types.LocalFontsResponse, error) {
	fonts, err := l.svcCtx.LocalFonts.Enumerate(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return &types.LocalFontsResponse{Fonts: fonts}, nil
}

func (l *LoadingLogic) state(id string) *types.LoadStateResponse {
	return &types.LoadStateResponse{Id: id, State: l.svcCtx.Loader.State(id).String()}
}

package catalogs

import (
	"context"
	"time"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/queue"

	"github.com/zeromicro/go-zero/core/logx"
)

type CatalogsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCatalogsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CatalogsLogic {
	return &CatalogsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Load returns the requested tier of a source's catalog. The full tier is
// fetched with the Google Fonts key from the collection settings.
func (l *CatalogsLogic) Load(source font.Source, tier catalog.Tier) (*catalog.Catalog, error) {
	if !source.IsCatalog() {
		return nil, errorx.ErrBadRequest("not a catalog source: " + string(source))
	}
	if tier == catalog.TierCurated {
		return l.svcCtx.Catalogs.LoadCurated(source), nil
	}
	c, err := l.svcCtx.Catalogs.FetchFull(l.ctx, source, l.svcCtx.APIKey(l.ctx))
	if err != nil {
		l.Errorf("Fetching full %s catalog: %v", source, err)
		return nil, errorx.FromError(err)
	}
	return c, nil
}

func (l *CatalogsLogic) Catalog(req *types.CatalogRequest) (*types.CatalogResponse, error) {
	source, err := font.ParseSource(req.Source)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	tier := catalog.ParseTier(req.Tier)
	c, err := l.Load(source, tier)
	if err != nil {
		return nil, err
	}

	fonts := catalog.Search(c, req.Query, catalog.Filters{Category: req.Category})
	return &types.CatalogResponse{
		Source:     string(c.Source),
		SourceName: c.SourceName,
		SourceUrl:  c.SourceURL,
		Tier:       tier.String(),
		Total:      len(fonts),
		Fonts:      fonts,
	}, nil
}

func (l *CatalogsLogic) Categories(req *types.CatalogRequest) (*types.CategoriesResponse, error) {
	source, err := font.ParseSource(req.Source)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	c, err := l.Load(source, catalog.ParseTier(req.Tier))
	if err != nil {
		return nil, err
	}
	return &types.CategoriesResponse{Categories: catalog.Categories(c)}, nil
}

func (l *CatalogsLogic) Refresh(req *types.RefreshRequest) (*types.RefreshJobResponse, error) {
	source, err := font.ParseSource(req.Source)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	job, err := l.svcCtx.Refresh.Enqueue(l.ctx, source)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	l.Infow("Catalog refresh queued", logx.Field("job_id", job.ID), logx.Field("source", job.Source))
	return l.Job(&types.JobPathRequest{Id: job.ID})
}

func (l *CatalogsLogic) Job(req *types.JobPathRequest) (*types.RefreshJobResponse, error) {
	st, err := l.svcCtx.Queue.Get(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	resp := JobResponse(*st)
	return &resp, nil
}

func (l *CatalogsLogic) Jobs(req *types.JobListRequest) (*types.JobListResponse, error) {
	jobs, err := l.svcCtx.Queue.List(l.ctx, req.Status, req.Limit)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	stats, err := l.svcCtx.Queue.Stats(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}

	resp := &types.JobListResponse{
		Jobs:  make([]types.RefreshJobResponse, 0, len(jobs)),
		Stats: stats,
	}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, JobResponse(j))
	}
	return resp, nil
}

func (l *CatalogsLogic) Persisted() (*types.PersistedCatalogsResponse, error) {
	infos, err := l.svcCtx.Persisted.List(l.ctx)
	if err != nil {
		return nil, errorx.FromError(err)
	}
	return &types.PersistedCatalogsResponse{Catalogs: infos}, nil
}

// JobResponse converts a tracked job into its API shape.
func JobResponse(st queue.JobStatus) types.RefreshJobResponse {
	resp := types.RefreshJobResponse{
		Id:          st.ID,
		Source:      st.Source,
		Status:      st.Status,
		Attempts:    st.Attempts,
		MaxAttempts: st.MaxAttempts,
		FontCount:   st.FontCount,
		Error:       st.Error.String,
		CreatedAt:   st.CreatedAt.UTC().Format(time.RFC3339),
	}
	if st.FinishedAt.Valid {
		resp.FinishedAt = st.FinishedAt.Time.UTC().Format(time.RFC3339)
	}
	return resp
}

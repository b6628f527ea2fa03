package catalogs

import (
	"net/http"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/logic/catalogs"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func GetCatalogHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CatalogRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Catalog(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func GetCategoriesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CatalogRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Categories(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func RefreshCatalogHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RefreshRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Refresh(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.WriteJsonCtx(r.Context(), w, http.StatusAccepted, resp)
		}
	}
}

func ListJobsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.JobListRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Jobs(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func GetJobHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.JobPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Job(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func PersistedCatalogsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := catalogs.NewCatalogsLogic(r.Context(), svcCtx)
		resp, err := l.Persisted()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

package loading

import (
	"net/http"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/logic/loading"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

func LoadFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.Load(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func UnloadFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.Unload(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func LoadAllHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.LoadAll()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func PreviewHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.Preview()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func LoaderStateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.State()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

func LocalFontsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := loading.NewLoadingLogic(r.Context(), svcCtx)
		resp, err := l.LocalFonts()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

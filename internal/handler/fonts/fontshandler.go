package fonts

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/joeblew999/fontdue/internal/errorx"
	"github.com/joeblew999/fontdue/internal/logic/fonts"
	"github.com/joeblew999/fontdue/internal/svc"
	"github.com/joeblew999/fontdue/internal/types"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/go-zero/rest/pathvar"
)

func ListFontsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontListRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.List(&req)
		respond(w, r, resp, err)
	}
}

func GroupedFontsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Grouped()
		respond(w, r, resp, err)
	}
}

func GetFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Get(&req)
		respond(w, r, resp, err)
	}
}

func AddCatalogFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AddCatalogFontRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.AddCatalog(&req)
		respond(w, r, resp, err)
	}
}

func AddCdnFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AddCdnFontRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.AddCdn(&req)
		respond(w, r, resp, err)
	}
}

func AddLocalFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AddLocalFontRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.AddLocal(&req)
		respond(w, r, resp, err)
	}
}

// UploadFontHandler accepts a multipart "file" field and an optional "name".
func UploadFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, font.MaxUploadSize+1<<20)
		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("file is required"))
			return
		}
		defer file.Close()

		if !font.IsValidFontFile(header.Filename, header.Header.Get("Content-Type")) {
			httpx.ErrorCtx(r.Context(), w, errorx.FromError(font.ErrInvalidFontFile))
			return
		}
		up, err := font.ReadFontFile(file, header.Filename)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.FromError(err))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.AddUpload(r.FormValue("name"), up)
		respond(w, r, resp, err)
	}
}

func UpdateFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update collection.FontUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("invalid font update: "+err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Update(pathvar.Vars(r)["id"], update)
		respond(w, r, resp, err)
	}
}

func DeleteFontHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Delete(&req)
		respond(w, r, resp, err)
	}
}

func ToggleFavoriteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.FontPathRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.ToggleFavorite(&req)
		respond(w, r, resp, err)
	}
}

func GetSelectedHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Selected()
		respond(w, r, resp, err)
	}
}

func SetSelectedHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SelectFontRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest(err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Select(&req)
		respond(w, r, resp, err)
	}
}

func GetSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Settings()
		respond(w, r, resp, err)
	}
}

func UpdateSettingsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update collection.SettingsUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("invalid settings: "+err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.UpdateSettings(update)
		respond(w, r, resp, err)
	}
}

// ExportHandler serves the collection as a downloadable JSON document.
func ExportHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		data, err := l.Export()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="fontdue-collection.json"`)
		if _, err := w.Write(data); err != nil {
			l.Errorf("write export: %v", err)
		}
	}
}

func ImportHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, 64<<20))
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrBadRequest("read body: "+err.Error()))
			return
		}

		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Import(data)
		respond(w, r, resp, err)
	}
}

func ResetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Reset()
		respond(w, r, resp, err)
	}
}

func ClearHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := fonts.NewFontsLogic(r.Context(), svcCtx)
		resp, err := l.Clear()
		respond(w, r, resp, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, resp any, err error) {
	if err != nil {
		httpx.ErrorCtx(r.Context(), w, err)
	} else {
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

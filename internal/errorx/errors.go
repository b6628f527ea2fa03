package errorx

import (
	"context"
	"errors"
	"net/http"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/joeblew999/fontdue/pkg/queue"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// CodeError is a typed error that carries an HTTP status code.
// Logic functions return these so the global error handler can map
// them to the correct HTTP response.
type CodeError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *CodeError) Error() string {
	return e.Msg
}

// ErrNotFound returns a 404 error.
func ErrNotFound(msg string) error {
	return &CodeError{Code: http.StatusNotFound, Msg: msg}
}

// ErrBadRequest returns a 400 error.
func ErrBadRequest(msg string) error {
	return &CodeError{Code: http.StatusBadRequest, Msg: msg}
}

// ErrForbidden returns a 403 error.
func ErrForbidden(msg string) error {
	return &CodeError{Code: http.StatusForbidden, Msg: msg}
}

// ErrConflict returns a 409 error.
func ErrConflict(msg string) error {
	return &CodeError{Code: http.StatusConflict, Msg: msg}
}

// ErrBadGateway returns a 502 error.
func ErrBadGateway(msg string) error {
	return &CodeError{Code: http.StatusBadGateway, Msg: msg}
}

// ErrInternal returns a 500 error.
func ErrInternal(msg string) error {
	return &CodeError{Code: http.StatusInternalServerError, Msg: msg}
}

// FromError maps domain errors onto CodeErrors. Errors it does not know
// become 500s carrying the message.
func FromError(err error) error {
	var ce *CodeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, catalog.ErrCredentialMissing),
		errors.Is(err, catalog.ErrUnsupported),
		errors.Is(err, font.ErrUnknownSource),
		errors.Is(err, collection.ErrInvalidCollection),
		errors.Is(err, font.ErrInvalidFontFile),
		errors.Is(err, font.ErrEmptyFile),
		errors.Is(err, font.ErrFileTooLarge),
		errors.Is(err, loader.ErrMissingURL):
		return ErrBadRequest(err.Error())
	case errors.Is(err, catalog.ErrCredentialInvalid),
		errors.Is(err, loader.ErrPermissionDenied):
		return ErrForbidden(err.Error())
	case errors.Is(err, catalog.ErrFontNotFound),
		errors.Is(err, collection.ErrNoCollection),
		errors.Is(err, queue.ErrNotFound):
		return ErrNotFound(err.Error())
	case errors.Is(err, catalog.ErrFetchFailed):
		return ErrBadGateway(err.Error())
	default:
		var le *loader.LoadError
		if errors.As(err, &le) {
			return ErrBadGateway(err.Error())
		}
		return ErrInternal(err.Error())
	}
}

// RegisterErrorHandler installs a global error handler that maps CodeError
// to the correct HTTP status code. Untyped errors become 500.
func RegisterErrorHandler() {
	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, any) {
		switch e := err.(type) {
		case *CodeError:
			return e.Code, &CodeError{Code: e.Code, Msg: e.Msg}
		default:
			logx.WithContext(ctx).Errorf("unexpected error: %v", err)
			return http.StatusInternalServerError, &CodeError{
				Code: http.StatusInternalServerError,
				Msg:  "internal server error",
			}
		}
	})
}

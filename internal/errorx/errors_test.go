package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/joeblew999/fontdue/pkg/catalog"
	"github.com/joeblew999/fontdue/pkg/collection"
	"github.com/joeblew999/fontdue/pkg/font"
	"github.com/joeblew999/fontdue/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"CredentialMissing", catalog.ErrCredentialMissing, http.StatusBadRequest},
		{"CredentialInvalid", fmt.Errorf("google: %w", catalog.ErrCredentialInvalid), http.StatusForbidden},
		{"Unsupported", catalog.ErrUnsupported, http.StatusBadRequest},
		{"UnknownSource", font.ErrUnknownSource, http.StatusBadRequest},
		{"InvalidCollection", collection.ErrInvalidCollection, http.StatusBadRequest},
		{"NoCollection", collection.ErrNoCollection, http.StatusNotFound},
		{"FontNotFound", catalog.ErrFontNotFound, http.StatusNotFound},
		{"FetchFailed", fmt.Errorf("%w: timeout", catalog.ErrFetchFailed), http.StatusBadGateway},
		{"LoadError", &loader.LoadError{FontID: "x", Name: "X", Err: errors.New("boom")}, http.StatusBadGateway},
		{"Unknown", errors.New("disk full"), http.StatusInternalServerError},
		{"CodeError", ErrConflict("dup"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *CodeError
			require.ErrorAs(t, FromError(tt.err), &ce)
			assert.Equal(t, tt.code, ce.Code)
		})
	}

	assert.NoError(t, FromError(nil))
}

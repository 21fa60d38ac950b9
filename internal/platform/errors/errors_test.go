package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/moodmatch/internal/domain"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
	}{
		{"validation", ValidationError("bad input"), TypeValidation, http.StatusBadRequest},
		{"not found", NotFoundError("missing"), TypeNotFound, http.StatusNotFound},
		{"rate limited", RateLimitedError("slow down"), TypeRateLimited, http.StatusTooManyRequests},
		{"unavailable", UnavailableError("store down", cause), TypeUnavailable, http.StatusServiceUnavailable},
		{"internal", InternalError("failed", cause), TypeInternal, http.StatusInternalServerError},
		{"external", ExternalError("upstream", cause), TypeExternal, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.typ))
		})
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := InternalError("failed to save entry", fmt.Errorf("connection reset"))
	assert.Contains(t, err.Error(), "failed to save entry")
	assert.Contains(t, err.Error(), "connection reset")

	err = InternalError("something went wrong", nil)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root")
	err := ExternalError("upstream failed", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestWithField(t *testing.T) {
	err := ValidationError("bad page").WithField("page", "abc")
	assert.Equal(t, "abc", err.Context["page"])

	bare := &Error{Type: TypeValidation}
	bare.WithField("k", 1)
	assert.Equal(t, 1, bare.Context["k"])
}

func TestToResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(ValidationError("No text provided").ToResponse())
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"No text provided","type":"validation"}`, string(body))
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := NotFoundError("nope")
	wrapped := fmt.Errorf("handler: %w", original)
	assert.Same(t, original, AsStructuredError(wrapped))

	tests := []struct {
		name string
		err  error
		typ  ErrorType
	}{
		{"empty text", domain.ErrEmptyText, TypeValidation},
		{"history unavailable", fmt.Errorf("%w: dial tcp", domain.ErrHistoryUnavailable), TypeUnavailable},
		{"history not found", domain.ErrHistoryNotFound, TypeNotFound},
		{"analysis failed", fmt.Errorf("%w: context canceled", domain.ErrAnalysisFailed), TypeInternal},
		{"plain", errors.New("kaboom"), TypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsStructuredError(tt.err)
			assert.Equal(t, tt.typ, got.Type)
			assert.True(t, errors.Is(got, tt.err))
		})
	}

	assert.Equal(t, "Internal server error", AsStructuredError(errors.New("secret detail")).Message)
}

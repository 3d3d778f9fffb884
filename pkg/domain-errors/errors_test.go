package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeUnauthorized, "nope")
		assert.True(t, HasCode(err, CodeUnauthorized))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrapped chain", func(t *testing.T) {
		inner := New(CodeConsentRequired, "no consent")
		outer := Wrap(inner, CodeInternal, "mutation failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeConsentRequired))
	})

	t.Run("fmt wrapped", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", New(CodeIndexOutOfBounds, "missing"))
		assert.True(t, HasCode(err, CodeIndexOutOfBounds))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestCodeOf(t *testing.T) {
	inner := New(CodeNotFound, "missing")
	assert.Equal(t, CodeNotFound, CodeOf(inner))
	assert.Equal(t, CodeInternal, CodeOf(Wrap(inner, CodeInternal, "read failed")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeUnauthorized, http.StatusForbidden},
		{CodeConsentRequired, http.StatusPreconditionFailed},
		{CodeIndexOutOfBounds, http.StatusNotFound},
		{CodeNotFound, http.StatusNotFound},
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}

func TestErrorString(t *testing.T) {
	err := Wrap(errors.New("connection refused"), CodeInternal, "failed to read consent")
	assert.Contains(t, err.Error(), "internal")
	assert.Contains(t, err.Error(), "connection refused")
}

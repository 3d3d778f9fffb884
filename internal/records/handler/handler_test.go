package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"datatrail/internal/records"
	"datatrail/internal/records/handler/mocks"
	id "datatrail/pkg/domain"
	dErrors "datatrail/pkg/domain-errors"
	"datatrail/pkg/requestcontext"
)

const fingerprintHex = "a3f1c2d4e5b697a8b9cadbecfd0e1f2a3b4c5d6e7f8091a2b3c4d5e6f7a8b9ca"

// newRouter mounts the handler behind a middleware that injects the caller,
// the way the authentication middleware does in production.
func newRouter(service Service, caller id.Principal) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithPrincipal(req.Context(), caller)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	New(service, logger).Register(r)
	return r
}

func TestHandleAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	caller := id.Principal("user-1")
	router := newRouter(service, caller)

	fingerprint, err := id.ParseHash(fingerprintHex)
	require.NoError(t, err)

	t.Run("returns the assigned index", func(t *testing.T) {
		service.EXPECT().
			Add(gomock.Any(), caller, caller, id.DataCategoryHealth, fingerprint, "ipfs://doc", id.Hash{}, gomock.Any()).
			Return(4, nil)

		body, _ := json.Marshal(map[string]any{
			"category":            "health",
			"data_fingerprint":    fingerprintHex,
			"location_uri":        "ipfs://doc",
			"encryption_key_hint": strings.Repeat("00", 32),
			"collected_at":        time.Now().UTC(),
		})
		req := httptest.NewRequest(http.MethodPost, "/subjects/user-1/records", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Index int `json:"index"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 4, resp.Index)
	})

	t.Run("invalid category is a 400", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"category":            "biometric",
			"data_fingerprint":    fingerprintHex,
			"encryption_key_hint": strings.Repeat("00", 32),
		})
		req := httptest.NewRequest(http.MethodPost, "/subjects/user-1/records", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed fingerprint is a 400", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"category":            "health",
			"data_fingerprint":    "zz",
			"encryption_key_hint": strings.Repeat("00", 32),
		})
		req := httptest.NewRequest(http.MethodPost, "/subjects/user-1/records", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("consent failure surfaces as 412", func(t *testing.T) {
		service.EXPECT().
			Add(gomock.Any(), caller, id.Principal("user-2"), id.DataCategoryHealth, fingerprint, "", id.Hash{}, gomock.Any()).
			Return(0, dErrors.New(dErrors.CodeConsentRequired, "no active consent for category"))

		body, _ := json.Marshal(map[string]any{
			"category":            "health",
			"data_fingerprint":    fingerprintHex,
			"encryption_key_hint": strings.Repeat("00", 32),
		})
		req := httptest.NewRequest(http.MethodPost, "/subjects/user-2/records", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusPreconditionFailed, rec.Code)
		var resp struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "consent_required", resp.Error)
	})
}

func TestHandleRedact(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	caller := id.Principal("user-1")
	router := newRouter(service, caller)

	t.Run("no content on success", func(t *testing.T) {
		service.EXPECT().Redact(gomock.Any(), caller, 2).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/records/2/redact", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing index is a 404", func(t *testing.T) {
		service.EXPECT().Redact(gomock.Any(), caller, 9).
			Return(dErrors.New(dErrors.CodeIndexOutOfBounds, "no record at index"))

		req := httptest.NewRequest(http.MethodPost, "/records/9/redact", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric index is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/records/abc/redact", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	caller := id.Principal("insurer-1")
	subject := id.Principal("user-1")
	router := newRouter(service, caller)

	t.Run("count", func(t *testing.T) {
		service.EXPECT().Count(gomock.Any(), caller, subject).Return(3, nil)

		req := httptest.NewRequest(http.MethodGet, "/subjects/user-1/records/count", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 3, resp.Count)
	})

	t.Run("get returns the full record", func(t *testing.T) {
		service.EXPECT().Get(gomock.Any(), caller, subject, 0).Return(records.DataRecord{
			Subject:     subject,
			Index:       0,
			Category:    id.DataCategoryDriving,
			LocationURI: "ipfs://trip",
			Redacted:    true,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/subjects/user-1/records/0", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp records.DataRecord
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Redacted)
		assert.Equal(t, "ipfs://trip", resp.LocationURI)
	})

	t.Run("unauthorized read is a 403", func(t *testing.T) {
		service.EXPECT().Count(gomock.Any(), caller, id.Principal("user-2")).
			Return(0, dErrors.New(dErrors.CodeUnauthorized, "caller may not read this subject's records"))

		req := httptest.NewRequest(http.MethodGet, "/subjects/user-2/records/count", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

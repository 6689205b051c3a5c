package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workledger/internal/audit"
	"workledger/internal/authz"
	"workledger/internal/platform/health"
	"workledger/internal/platform/middleware"
	"workledger/internal/registry/models"
	"workledger/internal/registry/service"
	"workledger/internal/registry/store"
)

// stubValidator maps bearer tokens to claims without real JWT parsing.
type stubValidator struct {
	tokens map[string]*middleware.TokenClaims
}

func (v *stubValidator) Validate(tokenString string) (*middleware.TokenClaims, error) {
	claims, ok := v.tokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return claims, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditor := audit.NewPublisher(audit.NewInMemoryStore())
	svc := service.NewService(
		store.New(),
		authz.NewInMemoryAllowlist([]string{"acme-hr"}),
		auditor,
		logger,
	)
	validator := &stubValidator{tokens: map[string]*middleware.TokenClaims{
		"alice-token":   {Subject: "alice"},
		"acme-token":    {Subject: "acme-hr", Verifier: true},
		"mallory-token": {Subject: "mallory"},
	}}
	return NewRouter(NewHandler(svc, logger), RouterConfig{
		Logger:    logger,
		Validator: validator,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addRecordBody() map[string]string {
	return map[string]string{
		"employer_name": "Acme",
		"title":         "Engineer",
		"description":   "Built the anvils pipeline",
		"start_date":    "2020-01-01",
		"end_date":      "2021-01-01",
	}
}

func TestAddRecordRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/records", "", addRecordBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/records", "bogus", addRecordBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddRecordReturnsAssignedID(t *testing.T) {
	router := newTestRouter(t)

	for want := uint64(0); want < 3; want++ {
		rec := doJSON(t, router, http.MethodPost, "/records", "alice-token", addRecordBody())
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp models.AddRecordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, want, resp.ID)
	}
}

func TestAddRecordRejectsInvalidInput(t *testing.T) {
	router := newTestRouter(t)

	body := addRecordBody()
	body["employer_name"] = "   "
	rec := doJSON(t, router, http.MethodPost, "/records", "alice-token", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")

	body = addRecordBody()
	body["end_date"] = "2019-01-01"
	rec = doJSON(t, router, http.MethodPost, "/records", "alice-token", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddRecordRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/records", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer alice-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRecordIsPublic(t *testing.T) {
	router := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/records", "alice-token", addRecordBody())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doJSON(t, router, http.MethodGet, "/records/0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var record models.WorkRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "alice", record.Owner)
	assert.Equal(t, "Acme", record.EmployerName)
	assert.Equal(t, "2020-01-01", record.StartDate)
	assert.False(t, record.Verified)
}

func TestGetRecordUnknownOrMalformedIDIs404(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/records/999", "/records/abc", "/records/-1"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
	}
}

func TestVerifyRecordStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	created := doJSON(t, router, http.MethodPost, "/records", "alice-token", addRecordBody())
	require.Equal(t, http.StatusCreated, created.Code)

	t.Run("requires auth", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/records/0/verify", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-verifier is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/records/0/verify", "mallory-token", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/records/999/verify", "acme-token", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("verifier succeeds once", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/records/0/verify", "acme-token", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var record models.WorkRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.True(t, record.Verified)
		assert.Equal(t, "acme-hr", record.Verifier)
		assert.NotNil(t, record.VerifiedAt)
	})

	t.Run("second attempt conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/records/0/verify", "acme-token", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already_verified")
	})
}

func TestTotalRecordsCountsCreations(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/records/total", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var total models.TotalRecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &total))
	assert.Zero(t, total.Total)

	for i := 0; i < 4; i++ {
		created := doJSON(t, router, http.MethodPost, "/records", "alice-token", addRecordBody())
		require.Equal(t, http.StatusCreated, created.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/records/total", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &total))
	assert.Equal(t, uint64(4), total.Total)
}

func TestUnsupportedContentTypeRejected(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/records", bytes.NewBufferString("employer=Acme"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer alice-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHealthEndpointsWhenConfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditor := audit.NewPublisher(audit.NewInMemoryStore())
	svc := service.NewService(store.New(), authz.NewInMemoryAllowlist(nil), auditor, logger)

	healthHandler := health.New("test")
	router := NewRouter(NewHandler(svc, logger), RouterConfig{
		Logger:    logger,
		Validator: &stubValidator{},
		Health:    healthHandler,
	})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestServiceUnavailableWithoutAuditSink(t *testing.T) {
	// A nil-publisher service still serves requests; audit is best effort.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(store.New(), authz.NewInMemoryAllowlist(nil), nil, logger)
	router := NewRouter(NewHandler(svc, logger), RouterConfig{
		Logger: logger,
		Validator: &stubValidator{tokens: map[string]*middleware.TokenClaims{
			"alice-token": {Subject: "alice"},
		}},
	})

	rec := doJSON(t, router, http.MethodPost, "/records", "alice-token", addRecordBody())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformmetrics "provreg/internal/platform/metrics"
	"provreg/internal/platform/middleware"
	"provreg/internal/registry/service"
	"provreg/internal/registry/store/grant"
	"provreg/internal/registry/store/record"
)

// stubValidator treats the bearer token itself as the principal, so tests can
// authenticate as anyone without minting real tokens.
type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*middleware.Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	return &middleware.Claims{Principal: token}, nil
}

var testMetrics = platformmetrics.New()

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.New(record.NewInMemory(), grant.NewInMemory(), "administrator")
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), testMetrics, stubValidator{})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func do(t *testing.T, router http.Handler, principal, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		req.Header.Set("Authorization", "Bearer "+principal)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody() map[string]any {
	return map[string]any{
		"asset_designation":     "dataset-v1",
		"binary_footprint":      500,
		"descriptive_summary":   "x",
		"classification_labels": []string{"a"},
	}
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "alice", http.MethodPost, "/records", registerBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]uint64
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, uint64(1), resp["record_identifier"])
}

func TestRegisterRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "", http.MethodPost, "/records", registerBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidationStatus(t *testing.T) {
	router := newTestRouter(t)

	body := registerBody()
	body["binary_footprint"] = 2_000_000_000
	w := do(t, router, "alice", http.MethodPost, "/records", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "size_constraint_violated", resp["error"])
}

func TestReviseEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	t.Run("custodian may revise", func(t *testing.T) {
		body := registerBody()
		body["descriptive_summary"] = "revised"
		w := do(t, router, "alice", http.MethodPut, "/records/1", body)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-custodian is rejected", func(t *testing.T) {
		w := do(t, router, "mallory", http.MethodPut, "/records/1", registerBody())
		require.Equal(t, http.StatusForbidden, w.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ownership_mismatch", resp["error"])
	})

	t.Run("missing record", func(t *testing.T) {
		w := do(t, router, "alice", http.MethodPut, "/records/99", registerBody())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAccessFlowEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	w := do(t, router, "bob", http.MethodGet, "/records/1/analytics", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, "alice", http.MethodPost, "/records/1/access", map[string]string{"accessor": "bob"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, "bob", http.MethodGet, "/records/1/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var analytics map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&analytics))
	assert.EqualValues(t, 500, analytics["footprint"])
	assert.EqualValues(t, 1, analytics["label_count"])

	w = do(t, router, "alice", http.MethodPost, "/records/1/access/revoke", map[string]string{"accessor": "bob"})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, "bob", http.MethodGet, "/records/1/analytics", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	w := do(t, router, "alice", http.MethodPost, "/records/1/verify", map[string]string{"custodian": "impostor"})
	require.Equal(t, http.StatusOK, w.Code, "mismatch is a success outcome")

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, false, resp["matches"])
	assert.Equal(t, false, resp["confirmed"])
}

func TestLabelEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	w := do(t, router, "alice", http.MethodPost, "/records/1/labels", map[string][]string{"labels": {"b"}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"a", "b"}, resp["classification_labels"])

	w = do(t, router, "alice", http.MethodPost, "/records/1/archive", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestEliminateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	w := do(t, router, "alice", http.MethodDelete, "/records/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, "alice", http.MethodGet, "/records/1/analytics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiagnosticsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	t.Run("administrator only", func(t *testing.T) {
		w := do(t, router, "alice", http.MethodGet, "/diagnostics", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("reports sequence-derived total", func(t *testing.T) {
		w := do(t, router, "administrator", http.MethodGet, "/diagnostics", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.EqualValues(t, 1, resp["total_records"])
		assert.Equal(t, true, resp["healthy"])
	})
}

func TestBadRecordIdentifier(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/records/abc/analytics", "/records/0/analytics"} {
		w := do(t, router, "alice", http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestSecurityProtocolEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		do(t, router, "alice", http.MethodPost, "/records", registerBody()).Code)

	assert.Equal(t, http.StatusNoContent,
		do(t, router, "alice", http.MethodPost, "/records/1/security-protocol", nil).Code)
	assert.Equal(t, http.StatusNoContent,
		do(t, router, "administrator", http.MethodPost, "/records/1/security-protocol", nil).Code)
	assert.Equal(t, http.StatusForbidden,
		do(t, router, "bob", http.MethodPost, "/records/1/security-protocol", nil).Code)
}

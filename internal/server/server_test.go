// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/fleetmaster/internal/auth"
	"github.com/toeirei/fleetmaster/internal/db"
	"github.com/toeirei/fleetmaster/internal/model"
)

const testSecret = "server-test-secret"

func newTestServer(t *testing.T, secret string) *Server {
	t.Helper()
	store, err := db.NewStoreFromDSN("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, Options{JWTSecret: secret})
}

func do(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func mint(t *testing.T) string {
	t.Helper()
	tok, err := auth.MintToken([]byte(testSecret), "tester", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestServer_CRUD(t *testing.T) {
	s := newTestServer(t, testSecret)
	tok := mint(t)

	rec := do(t, s, http.MethodPost, "/vehicles", `{"year":2019,"make":"Subaru","model":"Outback"}`, tok)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.KindNumber, created.Year.Kind())
	assert.NotNil(t, created.UpdatedAt)

	rec = do(t, s, http.MethodGet, "/vehicles", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Subaru", list[0].Make.String())

	path := "/vehicles/" + strconv.Itoa(created.ID)
	rec = do(t, s, http.MethodPut, path, `{"year":"2020","make":"Subaru","model":null}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.KindString, updated.Year.Kind())
	assert.True(t, updated.Model.IsNull())

	rec = do(t, s, http.MethodGet, path, "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodDelete, path, "", tok)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, s, http.MethodDelete, path, "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestServer_EmptyListIsArray(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s, http.MethodGet, "/vehicles", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_RejectsMissingAndBadTokens(t *testing.T) {
	s := newTestServer(t, testSecret)

	rec := do(t, s, http.MethodGet, "/vehicles", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodGet, "/vehicles", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := auth.MintToken([]byte("other-secret"), "tester", time.Hour)
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/vehicles", "", other)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := auth.MintToken([]byte(testSecret), "tester", -time.Minute)
	require.NoError(t, err)
	rec = do(t, s, http.MethodGet, "/vehicles", "", expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_BadInput(t *testing.T) {
	s := newTestServer(t, "")

	rec := do(t, s, http.MethodPost, "/vehicles", `{"year":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/vehicles", `{"year":{"a":1}}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/vehicles/abc", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/vehicles/42", `{"year":1}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPatch, "/vehicles/42", `{}`, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_HealthAndMetricsSkipAuth(t *testing.T) {
	s := newTestServer(t, testSecret)

	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	_ = do(t, s, http.MethodGet, "/vehicles", "", mint(t))

	rec = do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "fleetmaster_http_requests_total")
	assert.Contains(t, body, `route="/vehicles"`)
	assert.Contains(t, body, "fleetmaster_http_request_duration_seconds")
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, "")
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

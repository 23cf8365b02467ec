// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/model"
)

type fakeTokens struct {
	token string
	err   error
}

func (f fakeTokens) AccessToken(context.Context) (string, error) { return f.token, f.err }

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.L
	logging.L = clog.New(&buf)
	t.Cleanup(func() { logging.L = prev })
	return &buf
}

func TestCall_SendsHeadersAndNormalisesMethod(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"id":9,"year":2020,"make":"Kia","model":"Rio"}`))
	}))
	defer srv.Close()

	c := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL+"/"))
	in := model.Vehicle{Year: model.Int(2020), Make: model.String("Kia"), Model: model.String("Rio")}
	var out model.Vehicle
	if err := c.Call(context.Background(), "put", "vehicles/9", in, &out); err != nil {
		t.Fatalf("Call: %v", err)
	}

	if got.Method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", got.Method)
	}
	if got.URL.Path != "/vehicles/9" {
		t.Fatalf("unexpected path %s", got.URL.Path)
	}
	if h := got.Header.Get("Authorization"); h != "Bearer tok" {
		t.Fatalf("unexpected authorization header %q", h)
	}
	if got.Header.Get("Content-Type") != "application/json" || got.Header.Get("Accept") != "application/json" {
		t.Fatalf("missing json headers: %v", got.Header)
	}
	if _, err := uuid.Parse(got.Header.Get(RequestIDHeader)); err != nil {
		t.Fatalf("request id is not a uuid: %v", err)
	}
	var sent map[string]any
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if _, ok := sent["id"]; ok {
		t.Fatalf("transient vehicle must not carry an id: %s", gotBody)
	}
	if out.ID != 9 || out.Make.String() != "Kia" {
		t.Fatalf("unexpected decoded vehicle %+v", out)
	}
}

func TestCall_EmptyBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL))
	out := []model.Vehicle{{ID: 1}}
	if err := c.Call(context.Background(), "DELETE", "/vehicles/1", nil, &out); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("out must be left untouched, got %+v", out)
	}
}

func TestCall_NonSuccessStatusSurfacesServerMessage(t *testing.T) {
	buf := captureLog(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"vehicle 4 not found"}`))
	}))
	defer srv.Close()

	c := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL))
	err := c.Call(context.Background(), "get", "/vehicles/4", nil, nil)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	var re *RequestError
	if !errors.As(err, &re) || re.Status != http.StatusNotFound {
		t.Fatalf("expected RequestError with 404, got %#v", err)
	}
	if !strings.Contains(err.Error(), "vehicle 4 not found") {
		t.Fatalf("server message missing from %q", err.Error())
	}
	if !strings.Contains(buf.String(), "vehicle 4 not found") {
		t.Fatalf("failure was not logged: %s", buf.String())
	}
}

func TestCall_NonJSONErrorFallsBackToStatus(t *testing.T) {
	captureLog(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL)).Call(context.Background(), "GET", "/vehicles", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "500 Internal Server Error") {
		t.Fatalf("expected status text in error, got %v", err)
	}
}

func TestCall_TokenFailureSkipsRequest(t *testing.T) {
	captureLog(t)
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	tokenErr := errors.New("no session")
	err := New(fakeTokens{err: tokenErr}, WithBaseURL(srv.URL)).Call(context.Background(), "GET", "/vehicles", nil, nil)
	if !errors.Is(err, ErrRequestFailed) || !errors.Is(err, tokenErr) {
		t.Fatalf("expected wrapped token error, got %v", err)
	}
	if called {
		t.Fatalf("no request must be sent without a token")
	}
}

func TestCall_MalformedJSONFails(t *testing.T) {
	captureLog(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	}))
	defer srv.Close()

	var out []model.Vehicle
	err := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL)).Call(context.Background(), "GET", "/vehicles", nil, &out)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestCall_TransportFailureAndTimeout(t *testing.T) {
	captureLog(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(fakeTokens{token: "tok"}, WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	err := c.Call(context.Background(), "GET", "/vehicles", nil, nil)
	var re *RequestError
	if !errors.As(err, &re) || re.Status != 0 {
		t.Fatalf("expected transport RequestError, got %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(fakeTokens{})
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("unexpected default base url %q", c.BaseURL())
	}
	if c.http.Timeout != DefaultTimeout {
		t.Fatalf("unexpected default timeout %s", c.http.Timeout)
	}
}

// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *passkey.Service {
	t.Helper()

	cfg := &passkey.Config{
		RPID:          "example.com",
		RPDisplayName: "Example",
		RPOrigins:     []string{"https://example.com"},
	}

	verifier, err := passkey.NewWebAuthnVerifier(cfg)
	require.NoError(t, err)

	svc, err := passkey.NewService(passkey.ServiceParams{
		Config:         cfg,
		UserStore:      passkey.NewMemoryUserStore(),
		ChallengeStore: passkey.NewMemoryChallengeStore(),
		Verifier:       verifier,
	})
	require.NoError(t, err)
	return svc
}

func TestMountChi(t *testing.T) {
	h := NewHandler(newTestService(t))

	r := chi.NewRouter()
	r.Route("/api/v1/passkey", func(r chi.Router) {
		MountChi(r, h)
	})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/v1/passkey/register", `{"username":"alice"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/passkey/register-challenge", `{"userId":"missing"}`, http.StatusNotFound},
		{http.MethodPost, "/api/v1/passkey/register-verify", "{}", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/passkey/login-challenge", `{"userId":"missing"}`, http.StatusNotFound},
		{http.MethodPost, "/api/v1/passkey/login-verify", "{}", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMountStdlib(t *testing.T) {
	h := NewHandler(newTestService(t))

	mux := http.NewServeMux()
	MountStdlib(mux, "/passkey", h)

	req := httptest.NewRequest(http.MethodPost, "/passkey/register", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Method checking falls to the handlers on a plain mux.
	req = httptest.NewRequest(http.MethodGet, "/passkey/register", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRoutes(t *testing.T) {
	h := NewHandler(newTestService(t))

	routes := h.Routes()
	require.Len(t, routes, 5)

	paths := make(map[string]bool)
	for _, route := range routes {
		assert.Equal(t, "POST", route.Method)
		assert.NotNil(t, route.Handler)
		paths[route.Path] = true
	}

	for _, want := range []string{"/register", "/register-challenge", "/register-verify", "/login-challenge", "/login-verify"} {
		assert.True(t, paths[want], "missing route %s", want)
	}
}

func TestHandlerFunc(t *testing.T) {
	h := NewHandler(newTestService(t))
	fn := h.HandlerFunc()

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fn(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/unknown", strings.NewReader("{}"))
	rec = httptest.NewRecorder()
	fn(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

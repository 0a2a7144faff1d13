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

	"github.com/go-chi/chi/v5"
)

// MountChi mounts passkey routes on a chi router.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(svc)
//	r.Route("/api/v1/passkey", func(r chi.Router) {
//	    passkeyhttp.MountChi(r, handler)
//	})
func MountChi(r chi.Router, h *Handler) {
	r.Post("/register", h.Register)
	r.Post("/register-challenge", h.RegisterChallenge)
	r.Post("/register-verify", h.RegisterVerify)
	r.Post("/login-challenge", h.LoginChallenge)
	r.Post("/login-verify", h.LoginVerify)
}

// MountStdlib mounts passkey routes on a stdlib http.ServeMux.
// The prefix should not include a trailing slash.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(svc)
//	passkeyhttp.MountStdlib(mux, "/api/v1/passkey", handler)
func MountStdlib(mux *http.ServeMux, prefix string, h *Handler) {
	mux.HandleFunc(prefix+"/register", h.Register)
	mux.HandleFunc(prefix+"/register-challenge", h.RegisterChallenge)
	mux.HandleFunc(prefix+"/register-verify", h.RegisterVerify)
	mux.HandleFunc(prefix+"/login-challenge", h.LoginChallenge)
	mux.HandleFunc(prefix+"/login-verify", h.LoginVerify)
}

// RouteEntry represents a single route with its method, path, and handler.
type RouteEntry struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes returns a slice of route entries for manual mounting.
// Useful for frameworks not directly supported.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(svc)
//	for _, route := range handler.Routes() {
//	    router.Add(route.Method, "/passkey"+route.Path, route.Handler)
//	}
func (h *Handler) Routes() []RouteEntry {
	return []RouteEntry{
		{Method: "POST", Path: "/register", Handler: h.Register},
		{Method: "POST", Path: "/register-challenge", Handler: h.RegisterChallenge},
		{Method: "POST", Path: "/register-verify", Handler: h.RegisterVerify},
		{Method: "POST", Path: "/login-challenge", Handler: h.LoginChallenge},
		{Method: "POST", Path: "/login-verify", Handler: h.LoginVerify},
	}
}

// HandlerFunc returns a single http.HandlerFunc that routes based on path.
// This is useful when you want a single handler for a path prefix.
//
// Note: This requires the request path to have the prefix already stripped.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(svc)
//	mux.Handle("/api/v1/passkey/", http.StripPrefix("/api/v1/passkey", handler.HandlerFunc()))
func (h *Handler) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/register":
			h.Register(w, r)
		case "/register-challenge":
			h.RegisterChallenge(w, r)
		case "/register-verify":
			h.RegisterVerify(w, r)
		case "/login-challenge":
			h.LoginChallenge(w, r)
		case "/login-verify":
			h.LoginVerify(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

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

// Package http provides composable HTTP handlers for passkey ceremonies.
//
// This package allows applications to add passwordless authentication to
// their existing HTTP servers without coupling to go-passkey's internal
// REST implementation.
//
// # Usage
//
// Create a handler from a passkey service and mount it on your router:
//
//	svc, _ := passkey.NewService(...)
//	handler := passkeyhttp.NewHandler(svc)
//
//	// For chi router:
//	r.Route("/api/v1/passkey", func(r chi.Router) {
//	    passkeyhttp.MountChi(r, handler)
//	})
//
//	// For stdlib http.ServeMux:
//	passkeyhttp.MountStdlib(mux, "/api/v1/passkey", handler)
//
// # Endpoints
//
// The handler provides the following endpoints:
//
//	POST /register            - Create a user identity
//	POST /register-challenge  - Start registration ceremony
//	POST /register-verify     - Complete registration
//	POST /login-challenge     - Start authentication ceremony
//	POST /login-verify        - Complete authentication
//
// Every ceremony request carries the user ID in the JSON body as "userId";
// completion requests carry the authenticator response as "cred".
//
// # Response Format
//
// All responses are JSON. Successful responses include the data directly.
// Error responses have the format:
//
//	{
//	    "error": "challenge_not_found",
//	    "message": "no pending challenge"
//	}
//
// Failed verifications return 401 with error code "verification_failed", or
// "replay_detected" when the signature counter did not increase. A failed
// completion consumes the pending challenge: clients restart the ceremony
// from the challenge endpoint.
package http

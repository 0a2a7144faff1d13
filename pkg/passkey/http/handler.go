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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// Handler provides HTTP handlers for passkey ceremonies.
// These handlers can be mounted on any HTTP router.
type Handler struct {
	service *passkey.Service
	logger  *slog.Logger
}

// NewHandler creates a new passkey HTTP handler.
func NewHandler(service *passkey.Service) *Handler {
	return &Handler{
		service: service,
		logger:  slog.Default(),
	}
}

// WithLogger sets a custom logger for the handler.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// Register handles POST /register
//
// Request body:
//
//	{
//	    "username": "alice",
//	    "password": "ignored" // optional, never stored
//	}
//
// Response: {"id": "<user id>"}
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "username is required")
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	h.writeJSON(w, http.StatusOK, RegisterResponse{ID: user.ID})
}

// RegisterChallenge handles POST /register-challenge
//
// Request body: {"userId": "<user id>"}
// Response: {"options": <PublicKeyCredentialCreationOptions>}
func (h *Handler) RegisterChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	userID, ok := h.decodeUserID(w, r)
	if !ok {
		return
	}

	options, err := h.service.BeginRegistration(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, OptionsResponse{Options: options})
}

// RegisterVerify handles POST /register-verify
//
// Request body: {"userId": "<user id>", "cred": <attestation response>}
// Response: {"verified": true}
func (h *Handler) RegisterVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return
	}

	response, err := protocol.ParseCredentialCreationResponseBytes(req.Cred)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid attestation response")
		return
	}

	if err := h.service.FinishRegistration(r.Context(), req.UserID, response); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("credential registered", "user_id", req.UserID)
	h.writeJSON(w, http.StatusOK, VerifyResponse{Verified: true})
}

// LoginChallenge handles POST /login-challenge
//
// Request body: {"userId": "<user id>"}
// Response: {"options": <PublicKeyCredentialRequestOptions>}
func (h *Handler) LoginChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	userID, ok := h.decodeUserID(w, r)
	if !ok {
		return
	}

	options, err := h.service.BeginAuthentication(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, OptionsResponse{Options: options})
}

// LoginVerify handles POST /login-verify
//
// Request body: {"userId": "<user id>", "cred": <assertion response>}
// Response: {"verified": true}
func (h *Handler) LoginVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return
	}

	response, err := protocol.ParseCredentialRequestResponseBytes(req.Cred)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid assertion response")
		return
	}

	if err := h.service.FinishAuthentication(r.Context(), req.UserID, response); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user authenticated", "user_id", req.UserID)
	h.writeJSON(w, http.StatusOK, VerifyResponse{Verified: true})
}

// decodeUserID reads a ChallengeRequest body and validates the user ID.
func (h *Handler) decodeUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return "", false
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "userId is required")
		return "", false
	}
	return req.UserID, true
}

// handleServiceError maps service errors to HTTP responses. Replay
// rejections are matched before generic verification failures since
// ErrReplayDetected wraps ErrVerificationFailed.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, passkey.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, ErrorCodeUserNotFound, "user not found")
	case errors.Is(err, passkey.ErrChallengeNotFound):
		h.writeError(w, http.StatusBadRequest, ErrorCodeChallengeNotFound, "no pending challenge")
	case errors.Is(err, passkey.ErrChallengeExpired):
		h.writeError(w, http.StatusBadRequest, ErrorCodeChallengeExpired, "challenge expired")
	case errors.Is(err, passkey.ErrNoCredential):
		h.writeError(w, http.StatusBadRequest, ErrorCodeNoCredential, "user has no registered credential")
	case errors.Is(err, passkey.ErrReplayDetected):
		h.writeError(w, http.StatusUnauthorized, ErrorCodeReplayDetected, "signature counter did not increase")
	case errors.Is(err, passkey.ErrVerificationFailed):
		h.writeError(w, http.StatusUnauthorized, ErrorCodeVerificationFailed, "verification failed")
	case errors.Is(err, passkey.ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
	case errors.Is(err, passkey.ErrStoreUnavailable):
		h.writeError(w, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable, "store unavailable")
	default:
		h.logger.Error("unhandled service error", "error", err)
		h.writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal server error")
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response headers already written, can only log the error
		h.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status)
	}
}

// writeError writes a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

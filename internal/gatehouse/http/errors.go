package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
	"github.com/arborlabs/gatehouse/pkg/slogx"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service and domain errors onto the response contract.
// Anything unexpected is logged and collapsed into a bare 500 so internal
// details never leak to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists):
		httpx.WriteJSON(w, http.StatusConflict, errorResponse{Error: "User already exists"})
	case errors.Is(err, service.ErrChallengePending):
		httpx.WriteJSON(w, http.StatusConflict, errorResponse{Error: "2FA challenge already pending"})
	case errors.Is(err, service.ErrIncorrectCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Incorrect credentials"})
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid auth token"})
	case errors.Is(err, service.ErrMissingToken):
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing auth token"})
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidLoginAttemptID),
		errors.Is(err, domain.ErrInvalidTwoFACode):
		httpx.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid credentials"})
	default:
		slogx.FromContext(r.Context()).Error("unexpected error", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Unexpected error"})
	}
}

// decodeJSON reads a request body into dst. Bodies that are not valid JSON
// for the target shape are a 422, not a 400, which is reserved for
// well-formed requests carrying invalid values.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Malformed request body"})
		return false
	}
	return true
}

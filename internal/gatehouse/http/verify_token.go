package http

import (
	"errors"
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// VerifyTokenHandler serves POST /verify-token, letting other services ask
// whether a session token is still good. An empty token is treated the
// same as an invalid one.
type VerifyTokenHandler struct {
	AuthService *service.AuthService
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

func (h *VerifyTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Parse the request body
	var req verifyTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// 2. Validate the token
	if err := h.AuthService.VerifyToken(ctx, req.Token); err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			err = service.ErrInvalidToken
		}
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, struct{}{})
}

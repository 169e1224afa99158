package http

import (
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// Verify2FAHandler serves POST /verify-2fa, redeeming a pending challenge
// for a session cookie. Challenges are single use.
type Verify2FAHandler struct {
	AuthService *service.AuthService
}

type verify2FARequest struct {
	Email          string `json:"email"`
	LoginAttemptID string `json:"loginAttemptId"`
	TwoFACode      string `json:"2FACode"`
}

type verify2FAResponse struct {
	Message string `json:"message"`
}

func (h *Verify2FAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Parse the request body
	var req verify2FARequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// 2. Validate the challenge values
	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	attemptID, err := domain.ParseLoginAttemptID(req.LoginAttemptID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	code, err := domain.ParseTwoFACode(req.TwoFACode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 3. Redeem the challenge
	token, err := h.AuthService.Verify2FA(ctx, email, attemptID, code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.AuthService.Sessions.Cookie(token))
	httpx.WriteJSON(w, http.StatusOK, verify2FAResponse{Message: "Login successful"})
}

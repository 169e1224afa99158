package http

import (
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// LoginHandler serves POST /login. A successful password check either sets
// the session cookie straight away or opens a 2FA challenge the client
// completes via /verify-2fa.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId,omitempty"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Parse the request body
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// 2. Validate the credential values
	email, err := domain.ParseEmail(req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	password, err := domain.ParsePassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 3. Check the password
	result, err := h.AuthService.Login(ctx, email, password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 4. Either hand back a session or a pending 2FA challenge
	if result.TwoFARequired {
		httpx.WriteJSON(w, http.StatusOK, loginResponse{
			Message:        "2FA required",
			LoginAttemptID: result.LoginAttemptID.String(),
		})
		return
	}

	http.SetCookie(w, h.AuthService.Sessions.Cookie(result.Token))
	httpx.WriteJSON(w, http.StatusOK, loginResponse{Message: "Login successful"})
}

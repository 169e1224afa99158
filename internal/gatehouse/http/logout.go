package http

import (
	"errors"
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// LogoutHandler serves POST /logout. The session token comes from the auth
// cookie, gets revoked for the rest of its lifetime, and the cookie is
// cleared on the way out.
type LogoutHandler struct {
	AuthService *service.AuthService
}

type logoutResponse struct {
	Message string `json:"message"`
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Pull the session token from the cookie
	cookie, err := r.Cookie(service.CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		writeError(w, r, service.ErrMissingToken)
		return
	}

	// 2. Revoke it
	if err := h.AuthService.Logout(ctx, cookie.Value); err != nil {
		writeError(w, r, err)
		return
	}

	// 3. Clear the cookie client side
	http.SetCookie(w, h.AuthService.Sessions.ExpiredCookie())
	httpx.WriteJSON(w, http.StatusOK, logoutResponse{Message: "Logout successful"})
}

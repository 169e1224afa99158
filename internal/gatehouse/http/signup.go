package http

import (
	"net/http"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/internal/gatehouse/service"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// SignupHandler serves POST /signup, registering a new account.
type SignupHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Requires2FA bool   `json:"requires2FA"`
}

type signupResponse struct {
	Message string `json:"message"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Parse the request body
	var req signupRequest
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

	// 3. Register the account
	if err := h.AuthService.Signup(ctx, email, password, req.Requires2FA); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{Message: "User created successfully!"})
}

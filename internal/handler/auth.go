package handler

import (
	"net/http"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/service"
)

type authHandler struct {
	authService  *service.AuthService
	tokenService *service.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokenService *service.TokenService) *authHandler {
	return &authHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

type loginRequest struct {
	RollNumber string `json:"rollNumber" validate:"required,max=64"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login signs in by roll number, creating the account on first use.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req, maxBodySize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.RollNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.tokenService.SetCookie(w, result.Token)
	writeJSON(w, http.StatusOK, sessionResponse{Token: result.Token, User: result.User})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.tokenService.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.ByID(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type promoteResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token,omitempty"`
}

// PromoteAdmin grants the user named in the path the Admin role. Callers
// must already be admins; when they promote their own account the session
// token is reissued.
func (h *authHandler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !p.IsAdmin() {
		writeError(w, r, ErrForbidden)
		return
	}

	targetID := r.PathValue("id")
	user, err := h.authService.PromoteToAdmin(r.Context(), targetID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := promoteResponse{User: user}
	if targetID == p.UserID {
		resp.Token, err = h.tokenService.Issue(user)
		if err != nil {
			writeError(w, r, err)
			return
		}
		h.tokenService.SetCookie(w, resp.Token)
	}
	writeJSON(w, http.StatusOK, resp)
}

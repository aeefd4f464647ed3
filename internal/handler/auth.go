package handler

import (
	"log/slog"
	"net/http"

	"github.com/samims/ecowatt/internal/auth"
	"github.com/samims/ecowatt/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(authSvc service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger.With("layer", "handler", "component", "authHandler")}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	id, token, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"token": token, "identity": id})
}

// Me returns the identity behind the bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	respondJSON(w, http.StatusOK, id)
}

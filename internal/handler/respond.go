package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/samims/ecowatt/internal/auth"
	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/i18n"
	"github.com/samims/ecowatt/internal/middleware"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps service errors onto status codes. Internal details are
// logged, never returned.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, appErr.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, appErr.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, appErr.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, appErr.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, appErr.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, appErr.ErrUnavailable):
		status, msg = http.StatusServiceUnavailable, "unavailable"
	default:
		logger.Error("request failed", slog.Any("error", err))
	}
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return appErr.NewInvalidInput("invalid request body")
	}
	return nil
}

// requestLang prefers the {lang} route segment, then a lang query
// parameter, the lang cookie and the Accept-Language header.
func requestLang(r *http.Request) string {
	if lang, ok := middleware.ContextLanguage(r.Context()); ok {
		return lang
	}
	if lang := r.URL.Query().Get("lang"); i18n.IsSupported(lang) {
		return lang
	}
	var cookie string
	if c, err := r.Cookie(i18n.CookieName); err == nil {
		cookie = c.Value
	}
	return i18n.Detect(cookie, r.Header.Get("Accept-Language"))
}

// actor names the admin performing a change, for lead history.
func actor(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.Email
	}
	return "unknown"
}

func ownerID(r *http.Request) string {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		return id.UserID
	}
	return ""
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type notificationFeed struct {
	Items       any  `json:"items"`
	UnreadCount int  `json:"unread_count"`
	Degraded    bool `json:"degraded,omitempty"`
}

func (h *AdminHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(w, http.StatusOK, notificationFeed{
		Items:       h.notifications.List(ctx),
		UnreadCount: h.notifications.UnreadCount(ctx),
		Degraded:    h.notifications.Degraded(),
	})
}

func (h *AdminHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]int{"unread_count": h.notifications.UnreadCount(r.Context())})
}

func (h *AdminHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	h.notifications.MarkRead(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	h.notifications.MarkAllRead(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	h.notifications.Remove(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	h.notifications.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := h.users.ListVisitors(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, visitors)
}

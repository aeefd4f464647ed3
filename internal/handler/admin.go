package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/service"
	"github.com/samims/ecowatt/pkg/tracing"
)

// AdminHandler serves the back-office API. Every route sits behind Auth.
type AdminHandler struct {
	leads         service.LeadService
	catalog       service.CatalogService
	content       service.ContentService
	notifications service.NotificationService
	users         service.UserService
	logger        *slog.Logger
	tracer        *tracing.Tracer
}

type AdminServices struct {
	Leads         service.LeadService
	Catalog       service.CatalogService
	Content       service.ContentService
	Notifications service.NotificationService
	Users         service.UserService
}

func NewAdminHandler(svcs AdminServices, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		leads:         svcs.Leads,
		catalog:       svcs.Catalog,
		content:       svcs.Content,
		notifications: svcs.Notifications,
		users:         svcs.Users,
		logger:        logger.With("layer", "handler", "component", "adminHandler"),
		tracer:        tracing.New("admin-handler"),
	}
}

func leadFilterFromQuery(r *http.Request) (model.LeadFilter, error) {
	q := r.URL.Query()
	f := model.LeadFilter{
		Status: model.LeadStatus(q.Get("status")),
		Source: q.Get("source"),
		Search: q.Get("search"),
		TagID:  q.Get("tag"),
		SortBy: q.Get("sort"),
		Desc:   q.Get("order") != "asc",
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, appErr.NewInvalidInput("%s must be an integer", name)
			}
			*dst = n
		}
	}
	return f, nil
}

func (h *AdminHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "ListLeads")
	defer span.End()

	f, err := leadFilterFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	leads, err := h.leads.List(ctx, f)
	if err != nil {
		h.tracer.RecordError(span, err)
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

func (h *AdminHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (h *AdminHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if err := decodeJSON(r, &lead); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.leads.Create(r.Context(), &lead, actor(r)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, lead)
}

func (h *AdminHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	var lead model.Lead
	if err := decodeJSON(r, &lead); err != nil {
		respondError(w, h.logger, err)
		return
	}
	lead.ID = chi.URLParam(r, "id")
	if err := h.leads.Update(r.Context(), &lead, actor(r)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (h *AdminHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.LeadStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	lead, err := h.leads.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status, actor(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (h *AdminHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.leads.ListTags(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (h *AdminHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var tag model.Tag
	if err := decodeJSON(r, &tag); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.leads.CreateTag(r.Context(), &tag); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

func (h *AdminHandler) AddLeadTag(w http.ResponseWriter, r *http.Request) {
	err := h.leads.AddTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID"), actor(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RemoveLeadTag(w http.ResponseWriter, r *http.Request) {
	err := h.leads.RemoveTag(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tagID"), actor(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	rs, err := h.leads.ListReminders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, rs)
}

func (h *AdminHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var rem model.Reminder
	if err := decodeJSON(r, &rem); err != nil {
		respondError(w, h.logger, err)
		return
	}
	rem.LeadID = chi.URLParam(r, "id")
	if err := h.leads.CreateReminder(r.Context(), &rem); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, rem)
}

func (h *AdminHandler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.CompleteReminder(r.Context(), chi.URLParam(r, "reminderID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) LeadHistory(w http.ResponseWriter, r *http.Request) {
	hs, err := h.leads.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, hs)
}

func (h *AdminHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	vs, err := h.leads.ListViews(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vs)
}

func (h *AdminHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	var v model.SavedView
	if err := decodeJSON(r, &v); err != nil {
		respondError(w, h.logger, err)
		return
	}
	v.OwnerID = ownerID(r)
	if err := h.leads.CreateView(r.Context(), &v); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (h *AdminHandler) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := h.leads.DeleteView(r.Context(), chi.URLParam(r, "viewID"), ownerID(r)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samims/ecowatt/internal/model"
)

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, ps)
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// SaveProduct handles both create (POST) and update (PUT /{id}).
func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, h.logger, err)
		return
	}
	status := http.StatusCreated
	if id := chi.URLParam(r, "id"); id != "" {
		existing, err := h.catalog.GetProduct(r.Context(), id)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
		status = http.StatusOK
	}
	if err := h.catalog.SaveProduct(r.Context(), &p); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, status, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cs)
}

func (h *AdminHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, h.logger, err)
		return
	}
	status := http.StatusCreated
	if id := chi.URLParam(r, "id"); id != "" {
		c.ID = id
		status = http.StatusOK
	}
	if err := h.catalog.SaveCategory(r.Context(), &c); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, status, c)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.List(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *AdminHandler) SaveContent(w http.ResponseWriter, r *http.Request) {
	var c model.SEOContent
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, h.logger, err)
		return
	}
	status := http.StatusCreated
	if id := chi.URLParam(r, "id"); id != "" {
		c.ID = id
		status = http.StatusOK
	}
	if err := h.content.Save(r.Context(), &c); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, status, c)
}

func (h *AdminHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

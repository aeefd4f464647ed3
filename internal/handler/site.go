package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samims/ecowatt/internal/i18n"
	"github.com/samims/ecowatt/internal/middleware"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/service"
	"github.com/samims/ecowatt/pkg/tracing"
)

// SiteHandler serves the public storefront API.
type SiteHandler struct {
	catalog service.CatalogService
	content service.ContentService
	leads   service.LeadService
	carts   service.CartService
	logger  *slog.Logger
	tracer  *tracing.Tracer
}

func NewSiteHandler(catalog service.CatalogService, content service.ContentService, leads service.LeadService, carts service.CartService, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		catalog: catalog,
		content: content,
		leads:   leads,
		carts:   carts,
		logger:  logger.With("layer", "handler", "component", "siteHandler"),
		tracer:  tracing.New("site-handler"),
	}
}

// productView is a product flattened into one language.
type productView struct {
	ID          string   `json:"id"`
	SKU         *string  `json:"sku"`
	Slug        string   `json:"slug"`
	CategoryID  *string  `json:"category_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceHT     *float64 `json:"price_ht"`
	Currency    string   `json:"price_currency"`
	QuoteOnly   bool     `json:"is_quote_only"`
	Image       *string  `json:"image"`
	// CTA is the dictionary label of the product's primary action.
	CTA string `json:"cta"`
}

func newProductView(p model.Product, lang string) productView {
	cta := "product.add_to_cart"
	if p.PriceHT == nil || p.QuoteOnly {
		cta = "product.request_quote"
	}
	return productView{
		ID:          p.ID,
		SKU:         p.SKU,
		Slug:        p.Slug,
		CategoryID:  p.CategoryID,
		Name:        model.Localized(p.Name, lang, i18n.DefaultLang),
		Description: model.Localized(p.Description, lang, i18n.DefaultLang),
		PriceHT:     p.PriceHT,
		Currency:    p.Currency,
		QuoteOnly:   p.PriceHT == nil || p.QuoteOnly,
		Image:       p.Image,
		CTA:         i18n.T(lang, cta),
	}
}

func productViews(ps []model.Product, lang string) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, newProductView(p, lang))
	}
	return out
}

type categoryView struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "Home")
	defer span.End()

	lang := middleware.LanguageFromContext(ctx)
	span.SetAttributes(attribute.String(tracing.AttrLanguage, lang))

	respondJSON(w, http.StatusOK, map[string]any{
		"lang":     lang,
		"dir":      i18n.Dir(lang),
		"dict":     i18n.Dict(lang),
		"featured": productViews(h.catalog.Featured(ctx), lang),
	})
}

func (h *SiteHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "Products")
	defer span.End()

	lang := middleware.LanguageFromContext(ctx)
	products := h.catalog.Products(ctx)

	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.CategoryID != nil && *p.CategoryID == cat {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	respondJSON(w, http.StatusOK, productViews(products, lang))
}

func (h *SiteHandler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "Product")
	defer span.End()

	lang := middleware.LanguageFromContext(ctx)
	slug := chi.URLParam(r, "slug")
	p := h.catalog.ProductBySlug(ctx, slug)
	if p == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": i18n.T(lang, "error.not_found")})
		return
	}
	respondJSON(w, http.StatusOK, newProductView(*p, lang))
}

func (h *SiteHandler) Categories(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LanguageFromContext(r.Context())
	cats := h.catalog.Categories(r.Context())

	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView{
			ID:       c.ID,
			Slug:     c.Slug,
			Name:     model.Localized(c.Name, lang, i18n.DefaultLang),
			ParentID: c.ParentID,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *SiteHandler) Page(w http.ResponseWriter, r *http.Request) {
	lang := middleware.LanguageFromContext(r.Context())
	page := h.content.Page(r.Context(), chi.URLParam(r, "slug"), lang)
	if page == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": i18n.T(lang, "error.not_found")})
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "Contact")
	defer span.End()

	var in service.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, h.logger, err)
		return
	}
	lang := middleware.LanguageFromContext(ctx)
	lead, err := h.leads.SubmitContact(ctx, lang, in)
	if err != nil {
		h.tracer.RecordError(span, err)
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      lead.ID,
		"message": i18n.T(lang, "contact.success"),
	})
}

func (h *SiteHandler) Cart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.carts.Get(r.Context(), session))
}

func (h *SiteHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "AddToCart")
	defer span.End()

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	session := middleware.SessionFromContext(ctx)
	res, err := h.carts.Add(ctx, session, requestLang(r), req.ProductID, req.Quantity)
	if err != nil {
		h.tracer.RecordError(span, err)
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *SiteHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	session := middleware.SessionFromContext(r.Context())
	sum, err := h.carts.UpdateQuantity(r.Context(), session, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

func (h *SiteHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	sum, err := h.carts.Remove(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

func (h *SiteHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.carts.Clear(r.Context(), session))
}

func (h *SiteHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "Checkout")
	defer span.End()

	var in service.CheckoutInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, h.logger, err)
		return
	}
	session := middleware.SessionFromContext(ctx)
	order, err := h.carts.Checkout(ctx, session, requestLang(r), in)
	if err != nil {
		h.tracer.RecordError(span, err)
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *SiteHandler) RequestQuote(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.StartServerSpan(r.Context(), "RequestQuote")
	defer span.End()

	var in service.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, h.logger, err)
		return
	}
	session := middleware.SessionFromContext(ctx)
	lang := requestLang(r)
	lead, err := h.carts.RequestQuote(ctx, session, lang, in)
	if err != nil {
		h.tracer.RecordError(span, err)
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      lead.ID,
		"message": i18n.T(lang, "contact.success"),
	})
}

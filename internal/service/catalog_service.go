package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/pkg/tracing"
)

const defaultCurrency = "EUR"

// CatalogService serves products and categories. The storefront reads
// (Products, Featured, ProductBySlug, Categories) never fail: backend errors
// are logged and turned into empty results.
type CatalogService interface {
	Products(ctx context.Context) []model.Product
	Featured(ctx context.Context) []model.Product
	ProductBySlug(ctx context.Context, slug string) *model.Product
	Categories(ctx context.Context) []model.Category

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SaveProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type catalogService struct {
	store  storage.CatalogStorage
	logger *slog.Logger
	tracer *tracing.Tracer
	now    func() time.Time
}

func NewCatalogService(store storage.CatalogStorage, logger *slog.Logger) CatalogService {
	l := logger.With("layer", "service", "component", "catalogService")
	return &catalogService{store: store, logger: l, tracer: tracing.New("catalog-service"), now: time.Now}
}

func (s *catalogService) Products(ctx context.Context) []model.Product {
	ctx, span := s.tracer.StartServerSpan(ctx, "Products")
	defer span.End()

	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		s.tracer.RecordError(span, err)
		s.logger.Error("failed to fetch products", slog.Any("error", err))
		return []model.Product{}
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products
}

func (s *catalogService) Featured(ctx context.Context) []model.Product {
	featured := []model.Product{}
	for _, p := range s.Products(ctx) {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// ProductBySlug returns nil when the product is missing, inactive or the
// backend failed.
func (s *catalogService) ProductBySlug(ctx context.Context, slug string) *model.Product {
	p, err := s.store.GetProductBySlug(ctx, slug)
	if err != nil {
		if !appErr.IsNotFound(err) {
			s.logger.Error("failed to fetch product", slog.String("slug", slug), slog.Any("error", err))
		}
		return nil
	}
	if !p.Active {
		return nil
	}
	return p
}

func (s *catalogService) Categories(ctx context.Context) []model.Category {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to fetch categories", slog.Any("error", err))
		return []model.Category{}
	}
	return cats
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		s.logger.Error("failed to fetch products", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch products: %v", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NewNotFound("product %s not found", id)
		}
		s.logger.Error("failed to fetch product", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch product: %v", err)
	}
	return p, nil
}

// SaveProduct validates p, fills defaults and upserts it.
func (s *catalogService) SaveProduct(ctx context.Context, p *model.Product) error {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		return appErr.NewInvalidInput("product slug is required")
	}
	if model.Localized(p.Name, "", "") == "" {
		return appErr.NewInvalidInput("product needs a name in at least one language")
	}
	if p.PriceHT != nil && *p.PriceHT < 0 {
		return appErr.NewInvalidInput("price must not be negative")
	}
	if p.PriceHT == nil {
		p.QuoteOnly = true
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}

	now := s.now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.store.SaveProduct(ctx, p); err != nil {
		if appErr.IsConflict(err) {
			return appErr.NewConflict("product slug %q already used", p.Slug)
		}
		s.logger.Error("failed to save product", slog.String("id", p.ID), slog.Any("error", err))
		return appErr.NewInternal("failed to save product: %v", err)
	}
	s.logger.Info("product saved", slog.String("id", p.ID), slog.String("slug", p.Slug))
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.mapWriteErr("product", id, s.store.DeleteProduct(ctx, id))
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to fetch categories", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch categories: %v", err)
	}
	return cats, nil
}

func (s *catalogService) SaveCategory(ctx context.Context, c *model.Category) error {
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" {
		return appErr.NewInvalidInput("category slug is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt = s.now().UTC()
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return appErr.NewInvalidInput("category cannot be its own parent")
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		if appErr.IsConflict(err) {
			return appErr.NewConflict("category slug %q already used", c.Slug)
		}
		return appErr.NewInternal("failed to save category: %v", err)
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.mapWriteErr("category", id, s.store.DeleteCategory(ctx, id))
}

func (s *catalogService) mapWriteErr(kind, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case appErr.IsNotFound(err):
		return appErr.NewNotFound("%s %s not found", kind, id)
	default:
		s.logger.Error("write failed", slog.String("kind", kind), slog.String("id", id), slog.Any("error", err))
		return appErr.NewInternal("failed to write %s: %v", kind, err)
	}
}

package storage

import (
	"context"

	"github.com/samims/ecowatt/internal/model"
)

// LeadStorage covers leads and everything hanging off them.
type LeadStorage interface {
	Ping(ctx context.Context) error

	ListLeads(ctx context.Context, f model.LeadFilter) ([]model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	CreateLead(ctx context.Context, l *model.Lead) error
	UpdateLead(ctx context.Context, l *model.Lead) error
	UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error
	DeleteLead(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, t *model.Tag) error
	AddLeadTag(ctx context.Context, leadID, tagID string) error
	RemoveLeadTag(ctx context.Context, leadID, tagID string) error

	ListReminders(ctx context.Context, leadID string) ([]model.Reminder, error)
	CreateReminder(ctx context.Context, r *model.Reminder) error
	CompleteReminder(ctx context.Context, id string) error

	ListHistory(ctx context.Context, leadID string) ([]model.HistoryEntry, error)
	AddHistory(ctx context.Context, h *model.HistoryEntry) error

	ListSavedViews(ctx context.Context, ownerID string) ([]model.SavedView, error)
	CreateSavedView(ctx context.Context, v *model.SavedView) error
	DeleteSavedView(ctx context.Context, id, ownerID string) error
}

type CatalogStorage interface {
	ListProducts(ctx context.Context, onlyActive bool) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	SaveProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type ContentStorage interface {
	ListContent(ctx context.Context, lang string) ([]model.SEOContent, error)
	GetContent(ctx context.Context, slug, lang string) (*model.SEOContent, error)
	SaveContent(ctx context.Context, c *model.SEOContent) error
	DeleteContent(ctx context.Context, id string) error
}

type OrderStorage interface {
	CreateOrder(ctx context.Context, o *model.Order) error
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

type UserStorage interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type VisitorStorage interface {
	ListVisitors(ctx context.Context) ([]model.Visitor, error)
}

package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/samims/ecowatt/internal/model"
)

// Mocks in the shape mockery generates, shared by service tests.

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

func ptrArg[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func sliceArg[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

type MockLeadStorage struct {
	mock.Mock
}

func NewMockLeadStorage(t mockT) *MockLeadStorage {
	m := &MockLeadStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLeadStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadStorage) ListLeads(ctx context.Context, f model.LeadFilter) ([]model.Lead, error) {
	args := m.Called(ctx, f)
	return sliceArg[model.Lead](args, 0), args.Error(1)
}

func (m *MockLeadStorage) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	args := m.Called(ctx, id)
	return ptrArg[model.Lead](args, 0), args.Error(1)
}

func (m *MockLeadStorage) CreateLead(ctx context.Context, l *model.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadStorage) UpdateLead(ctx context.Context, l *model.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadStorage) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadStorage) DeleteLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadStorage) ListTags(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	return sliceArg[model.Tag](args, 0), args.Error(1)
}

func (m *MockLeadStorage) CreateTag(ctx context.Context, t *model.Tag) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockLeadStorage) AddLeadTag(ctx context.Context, leadID, tagID string) error {
	return m.Called(ctx, leadID, tagID).Error(0)
}

func (m *MockLeadStorage) RemoveLeadTag(ctx context.Context, leadID, tagID string) error {
	return m.Called(ctx, leadID, tagID).Error(0)
}

func (m *MockLeadStorage) ListReminders(ctx context.Context, leadID string) ([]model.Reminder, error) {
	args := m.Called(ctx, leadID)
	return sliceArg[model.Reminder](args, 0), args.Error(1)
}

func (m *MockLeadStorage) CreateReminder(ctx context.Context, r *model.Reminder) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockLeadStorage) CompleteReminder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLeadStorage) ListHistory(ctx context.Context, leadID string) ([]model.HistoryEntry, error) {
	args := m.Called(ctx, leadID)
	return sliceArg[model.HistoryEntry](args, 0), args.Error(1)
}

func (m *MockLeadStorage) AddHistory(ctx context.Context, h *model.HistoryEntry) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockLeadStorage) ListSavedViews(ctx context.Context, ownerID string) ([]model.SavedView, error) {
	args := m.Called(ctx, ownerID)
	return sliceArg[model.SavedView](args, 0), args.Error(1)
}

func (m *MockLeadStorage) CreateSavedView(ctx context.Context, v *model.SavedView) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockLeadStorage) DeleteSavedView(ctx context.Context, id, ownerID string) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

type MockCatalogStorage struct {
	mock.Mock
}

func NewMockCatalogStorage(t mockT) *MockCatalogStorage {
	m := &MockCatalogStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCatalogStorage) ListProducts(ctx context.Context, onlyActive bool) ([]model.Product, error) {
	args := m.Called(ctx, onlyActive)
	return sliceArg[model.Product](args, 0), args.Error(1)
}

func (m *MockCatalogStorage) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	return ptrArg[model.Product](args, 0), args.Error(1)
}

func (m *MockCatalogStorage) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	args := m.Called(ctx, slug)
	return ptrArg[model.Product](args, 0), args.Error(1)
}

func (m *MockCatalogStorage) SaveProduct(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockCatalogStorage) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	return sliceArg[model.Category](args, 0), args.Error(1)
}

func (m *MockCatalogStorage) SaveCategory(ctx context.Context, c *model.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCatalogStorage) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockContentStorage struct {
	mock.Mock
}

func NewMockContentStorage(t mockT) *MockContentStorage {
	m := &MockContentStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContentStorage) ListContent(ctx context.Context, lang string) ([]model.SEOContent, error) {
	args := m.Called(ctx, lang)
	return sliceArg[model.SEOContent](args, 0), args.Error(1)
}

func (m *MockContentStorage) GetContent(ctx context.Context, slug, lang string) (*model.SEOContent, error) {
	args := m.Called(ctx, slug, lang)
	return ptrArg[model.SEOContent](args, 0), args.Error(1)
}

func (m *MockContentStorage) SaveContent(ctx context.Context, c *model.SEOContent) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContentStorage) DeleteContent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOrderStorage struct {
	mock.Mock
}

func NewMockOrderStorage(t mockT) *MockOrderStorage {
	m := &MockOrderStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderStorage) CreateOrder(ctx context.Context, o *model.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderStorage) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	return ptrArg[model.Order](args, 0), args.Error(1)
}

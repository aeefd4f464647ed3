package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/i18n"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
)

// ContentService serves the static SEO pages (FAQ, legal notice).
type ContentService interface {
	// Page returns the published page in lang, falling back to the default
	// language. It returns nil when neither exists or the backend failed.
	Page(ctx context.Context, slug, lang string) *model.SEOContent

	List(ctx context.Context, lang string) ([]model.SEOContent, error)
	Save(ctx context.Context, c *model.SEOContent) error
	Delete(ctx context.Context, id string) error
}

type contentService struct {
	store  storage.ContentStorage
	logger *slog.Logger
	now    func() time.Time
}

func NewContentService(store storage.ContentStorage, logger *slog.Logger) ContentService {
	l := logger.With("layer", "service", "component", "contentService")
	return &contentService{store: store, logger: l, now: time.Now}
}

func (s *contentService) Page(ctx context.Context, slug, lang string) *model.SEOContent {
	langs := []string{lang}
	if lang != i18n.DefaultLang {
		langs = append(langs, i18n.DefaultLang)
	}
	for _, l := range langs {
		c, err := s.store.GetContent(ctx, slug, l)
		if err != nil {
			if !appErr.IsNotFound(err) {
				s.logger.Error("failed to fetch page", slog.String("slug", slug), slog.String("lang", l), slog.Any("error", err))
				return nil
			}
			continue
		}
		if c.Published {
			return c
		}
	}
	return nil
}

func (s *contentService) List(ctx context.Context, lang string) ([]model.SEOContent, error) {
	if lang != "" && !i18n.IsSupported(lang) {
		return nil, appErr.NewInvalidInput("unsupported language %q", lang)
	}
	items, err := s.store.ListContent(ctx, lang)
	if err != nil {
		s.logger.Error("failed to list content", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to list content: %v", err)
	}
	return items, nil
}

func (s *contentService) Save(ctx context.Context, c *model.SEOContent) error {
	c.Slug = strings.TrimSpace(c.Slug)
	if c.Slug == "" || c.Title == "" {
		return appErr.NewInvalidInput("slug and title are required")
	}
	if !i18n.IsSupported(c.Language) {
		return appErr.NewInvalidInput("unsupported language %q", c.Language)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.store.SaveContent(ctx, c); err != nil {
		if appErr.IsConflict(err) {
			return appErr.NewConflict("page %s/%s already exists", c.Language, c.Slug)
		}
		s.logger.Error("failed to save content", slog.String("id", c.ID), slog.Any("error", err))
		return appErr.NewInternal("failed to save content: %v", err)
	}
	return nil
}

func (s *contentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteContent(ctx, id); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("page %s not found", id)
		}
		return appErr.NewInternal("failed to delete content: %v", err)
	}
	return nil
}

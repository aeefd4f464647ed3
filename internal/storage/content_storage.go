package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/ecowatt/internal/model"
)

type contentStorage struct {
	db *pgxpool.Pool
}

func NewContentStorage(pool *pgxpool.Pool) ContentStorage {
	return &contentStorage{db: pool}
}

const contentColumns = `id, slug, language, title, COALESCE(meta_description, ''),
	COALESCE(body, ''), published, updated_at`

// ListContent returns every page; an empty lang means all languages.
func (s *contentStorage) ListContent(ctx context.Context, lang string) ([]model.SEOContent, error) {
	query := "SELECT " + contentColumns + " FROM seo_content"
	var args []any
	if lang != "" {
		query += " WHERE language = $1"
		args = append(args, lang)
	}
	query += " ORDER BY slug, language"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list content", err)
	}
	defer rows.Close()

	var out []model.SEOContent
	for rows.Next() {
		var c model.SEOContent
		if err := rows.Scan(&c.ID, &c.Slug, &c.Language, &c.Title, &c.MetaDescription,
			&c.Body, &c.Published, &c.UpdatedAt); err != nil {
			return nil, wrapErr("scan content", err)
		}
		out = append(out, c)
	}
	return out, wrapErr("iterate content", rows.Err())
}

func (s *contentStorage) GetContent(ctx context.Context, slug, lang string) (*model.SEOContent, error) {
	var c model.SEOContent
	err := s.db.QueryRow(ctx,
		"SELECT "+contentColumns+" FROM seo_content WHERE slug = $1 AND language = $2", slug, lang).
		Scan(&c.ID, &c.Slug, &c.Language, &c.Title, &c.MetaDescription, &c.Body, &c.Published, &c.UpdatedAt)
	if err != nil {
		return nil, wrapErr("get content", err)
	}
	return &c, nil
}

func (s *contentStorage) SaveContent(ctx context.Context, c *model.SEOContent) error {
	const query = `
		INSERT INTO seo_content (id, slug, language, title, meta_description, body, published, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug, language = EXCLUDED.language, title = EXCLUDED.title,
			meta_description = EXCLUDED.meta_description, body = EXCLUDED.body,
			published = EXCLUDED.published, updated_at = EXCLUDED.updated_at
	`
	c.UpdatedAt = time.Now().UTC()
	_, err := s.db.Exec(ctx, query, c.ID, c.Slug, c.Language, c.Title, c.MetaDescription, c.Body, c.Published, c.UpdatedAt)
	return wrapErr("save content", err)
}

func (s *contentStorage) DeleteContent(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM seo_content WHERE id = $1", id)
	if err != nil {
		return wrapErr("delete content", err)
	}
	return requireRows("delete content", tag)
}

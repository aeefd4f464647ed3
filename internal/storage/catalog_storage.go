package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/ecowatt/internal/model"
)

type catalogStorage struct {
	db *pgxpool.Pool
}

func NewCatalogStorage(pool *pgxpool.Pool) CatalogStorage {
	return &catalogStorage{db: pool}
}

const productColumns = `id, sku, slug, category_id, name, description, price_ht,
	price_currency, is_quote_only, image_url, featured, active, created_at, updated_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var (
		p        model.Product
		currency *string
		name     map[string]string
		desc     map[string]string
	)
	err := row.Scan(&p.ID, &p.SKU, &p.Slug, &p.CategoryID, &name, &desc, &p.PriceHT,
		&currency, &p.QuoteOnly, &p.Image, &p.Featured, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Product{}, err
	}
	p.Currency = deref(currency)
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if name == nil {
		name = map[string]string{}
	}
	if desc == nil {
		desc = map[string]string{}
	}
	p.Name, p.Description = name, desc
	// An unpriced product can only be quoted, whatever the row says.
	if p.PriceHT == nil {
		p.QuoteOnly = true
	}
	return p, nil
}

func (s *catalogStorage) ListProducts(ctx context.Context, onlyActive bool) ([]model.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if onlyActive {
		query += " WHERE active"
	}
	query += " ORDER BY featured DESC, created_at DESC"

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		out = append(out, p)
	}
	return out, wrapErr("iterate products", rows.Err())
}

func (s *catalogStorage) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		return nil, wrapErr("get product", err)
	}
	return &p, nil
}

func (s *catalogStorage) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := scanProduct(s.db.QueryRow(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug))
	if err != nil {
		return nil, wrapErr("get product by slug", err)
	}
	return &p, nil
}

// SaveProduct inserts or updates by id.
func (s *catalogStorage) SaveProduct(ctx context.Context, p *model.Product) error {
	const query = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku, slug = EXCLUDED.slug, category_id = EXCLUDED.category_id,
			name = EXCLUDED.name, description = EXCLUDED.description, price_ht = EXCLUDED.price_ht,
			price_currency = EXCLUDED.price_currency, is_quote_only = EXCLUDED.is_quote_only,
			image_url = EXCLUDED.image_url, featured = EXCLUDED.featured, active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`
	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	_, err := s.db.Exec(ctx, query, p.ID, p.SKU, p.Slug, p.CategoryID, p.Name, p.Description, p.PriceHT,
		p.Currency, p.QuoteOnly, p.Image, p.Featured, p.Active, p.CreatedAt, p.UpdatedAt)
	return wrapErr("save product", err)
}

func (s *catalogStorage) DeleteProduct(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return wrapErr("delete product", err)
	}
	return requireRows("delete product", tag)
}

func (s *catalogStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	const query = `
		SELECT id, slug, name, parent_id, COALESCE(position, 0), created_at
		FROM categories
		ORDER BY position, slug
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.ParentID, &c.Position, &c.CreatedAt); err != nil {
			return nil, wrapErr("scan category", err)
		}
		if c.Name == nil {
			c.Name = map[string]string{}
		}
		out = append(out, c)
	}
	return out, wrapErr("iterate categories", rows.Err())
}

func (s *catalogStorage) SaveCategory(ctx context.Context, c *model.Category) error {
	const query = `
		INSERT INTO categories (id, slug, name, parent_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug, name = EXCLUDED.name,
			parent_id = EXCLUDED.parent_id, position = EXCLUDED.position
	`
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, query, c.ID, c.Slug, c.Name, c.ParentID, c.Position, c.CreatedAt)
	return wrapErr("save category", err)
}

func (s *catalogStorage) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return wrapErr("delete category", err)
	}
	return requireRows("delete category", tag)
}

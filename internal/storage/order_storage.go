package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/ecowatt/internal/model"
)

type orderStorage struct {
	db *pgxpool.Pool
}

func NewOrderStorage(pool *pgxpool.Pool) OrderStorage {
	return &orderStorage{db: pool}
}

func (s *orderStorage) CreateOrder(ctx context.Context, o *model.Order) error {
	const query = `
		INSERT INTO orders (id, customer, items, subtotal, currency, status, language, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.Exec(ctx, query, o.ID, o.Customer, o.Items, o.Subtotal, o.Currency,
		string(o.Status), o.Language, o.Notes, o.CreatedAt)
	return wrapErr("create order", err)
}

func (s *orderStorage) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	const query = `
		SELECT id, customer, items, subtotal, currency, status, COALESCE(language, ''),
			COALESCE(notes, ''), created_at
		FROM orders
		WHERE id = $1
	`
	var (
		o      model.Order
		status string
	)
	err := s.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.Customer, &o.Items, &o.Subtotal,
		&o.Currency, &status, &o.Language, &o.Notes, &o.CreatedAt)
	if err != nil {
		return nil, wrapErr("get order", err)
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}

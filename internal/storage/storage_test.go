package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
)

func TestBuildLeadQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   model.LeadFilter
		wantSQL  []string
		wantArgs []any
	}{
		{
			name:     "no filter sorts newest first",
			filter:   model.LeadFilter{},
			wantSQL:  []string{"FROM leads ORDER BY created_at DESC"},
			wantArgs: nil,
		},
		{
			name:   "status source search",
			filter: model.LeadFilter{Status: model.LeadNew, Source: "contact_form", Search: "acme"},
			wantSQL: []string{
				"WHERE status = $1 AND source = $2 AND (first_name ILIKE $3",
				"company ILIKE $3)",
			},
			wantArgs: []any{"new", "contact_form", "%acme%"},
		},
		{
			name:     "tag sort and paging",
			filter:   model.LeadFilter{TagID: "t1", SortBy: "company", Limit: 20, Offset: 40},
			wantSQL:  []string{"lead_tags WHERE tag_id = $1", "ORDER BY company ASC LIMIT $2 OFFSET $3"},
			wantArgs: []any{"t1", 20, 40},
		},
		{
			name:     "unknown sort column is ignored",
			filter:   model.LeadFilter{SortBy: "password; DROP TABLE leads", Desc: true},
			wantSQL:  []string{"ORDER BY created_at DESC"},
			wantArgs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildLeadQuery(tt.filter)
			for _, frag := range tt.wantSQL {
				assert.Contains(t, sql, frag)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestWrapErr(t *testing.T) {
	assert.Nil(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", pgx.ErrNoRows), appErr.ErrNotFound)
	assert.ErrorIs(t, wrapErr("op", fmt.Errorf("x: %w", &pgconn.PgError{Code: "23505"})), appErr.ErrConflict)

	plain := errors.New("boom")
	assert.ErrorIs(t, wrapErr("op", plain), plain)
}

func TestUnavailableStorages(t *testing.T) {
	_, err := NewUnavailableUserStorage().ListUsers(context.Background())
	assert.True(t, appErr.IsUnavailable(err))

	_, err = NewUnavailableVisitorStorage().ListVisitors(context.Background())
	assert.True(t, appErr.IsUnavailable(err))
}

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/pkg/tracing"
)

type leadStorage struct {
	db     *pgxpool.Pool
	tracer *tracing.Tracer
}

func NewLeadStorage(pool *pgxpool.Pool) LeadStorage {
	return &leadStorage{db: pool, tracer: tracing.New("lead-storage")}
}

func (s *leadStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const leadColumns = `id, first_name, last_name, email, phone, company, message,
	source, status, language, products, created_at, updated_at`

var leadSortColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
	"last_name":  "last_name",
	"company":    "company",
}

// buildLeadQuery turns a filter into SQL and its positional args.
func buildLeadQuery(f model.LeadFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR company ILIKE $%[1]d)", n))
	}
	if f.TagID != "" {
		add("id IN (SELECT lead_id FROM lead_tags WHERE tag_id = $%d)", f.TagID)
	}

	var b strings.Builder
	b.WriteString("SELECT " + leadColumns + " FROM leads")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	col, ok := leadSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if f.Desc || f.SortBy == "" {
		dir = "DESC"
	}
	b.WriteString(" ORDER BY " + col + " " + dir)

	if f.Limit > 0 {
		args = append(args, f.Limit)
		b.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		b.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}
	return b.String(), args
}

func scanLead(row pgx.Row) (model.Lead, error) {
	var (
		l                                 model.Lead
		phone, company, message, language *string
		status                            string
		products                          []model.CartItem
	)
	err := row.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Email, &phone, &company, &message,
		&l.Source, &status, &language, &products, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Lead{}, err
	}
	l.Phone = deref(phone)
	l.Company = deref(company)
	l.Message = deref(message)
	l.Language = deref(language)
	l.Status = model.LeadStatus(status)
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	l.Products = products
	return l, nil
}

func (s *leadStorage) ListLeads(ctx context.Context, f model.LeadFilter) ([]model.Lead, error) {
	ctx, span := s.tracer.StartClientSpan(ctx, "ListLeads")
	defer span.End()
	start := time.Now()
	defer func() { s.tracer.AddDatabaseAttributes(span, "SELECT", "leads", time.Since(start)) }()

	query, args := buildLeadQuery(f)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, wrapErr("list leads", err)
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, wrapErr("scan lead", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate leads", err)
	}
	return leads, nil
}

func (s *leadStorage) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRow(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = $1", id)
	l, err := scanLead(row)
	if err != nil {
		return nil, wrapErr("get lead", err)
	}

	tags, err := s.leadTags(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Tags = tags
	return &l, nil
}

func (s *leadStorage) leadTags(ctx context.Context, leadID string) ([]model.Tag, error) {
	const query = `
		SELECT t.id, t.name, COALESCE(t.color, '')
		FROM tags t JOIN lead_tags lt ON lt.tag_id = t.id
		WHERE lt.lead_id = $1
		ORDER BY t.name
	`
	rows, err := s.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, wrapErr("lead tags", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, wrapErr("scan tag", err)
		}
		tags = append(tags, t)
	}
	return tags, wrapErr("iterate tags", rows.Err())
}

func (s *leadStorage) CreateLead(ctx context.Context, l *model.Lead) error {
	const query = `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.Exec(ctx, query, l.ID, l.FirstName, l.LastName, l.Email, l.Phone, l.Company,
		l.Message, l.Source, string(l.Status), l.Language, l.Products, l.CreatedAt, l.UpdatedAt)
	return wrapErr("create lead", err)
}

func (s *leadStorage) UpdateLead(ctx context.Context, l *model.Lead) error {
	const query = `
		UPDATE leads
		SET first_name = $1, last_name = $2, email = $3, phone = $4, company = $5,
			message = $6, status = $7, language = $8, updated_at = $9
		WHERE id = $10
	`
	tag, err := s.db.Exec(ctx, query, l.FirstName, l.LastName, l.Email, l.Phone, l.Company,
		l.Message, string(l.Status), l.Language, l.UpdatedAt, l.ID)
	if err != nil {
		return wrapErr("update lead", err)
	}
	return requireRows("update lead", tag)
}

func (s *leadStorage) UpdateLeadStatus(ctx context.Context, id string, status model.LeadStatus) error {
	tag, err := s.db.Exec(ctx, "UPDATE leads SET status = $1, updated_at = $2 WHERE id = $3",
		string(status), time.Now().UTC(), id)
	if err != nil {
		return wrapErr("update lead status", err)
	}
	return requireRows("update lead status", tag)
}

func (s *leadStorage) DeleteLead(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return wrapErr("delete lead", err)
	}
	return requireRows("delete lead", tag)
}

func (s *leadStorage) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name, COALESCE(color, '') FROM tags ORDER BY name")
	if err != nil {
		return nil, wrapErr("list tags", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, wrapErr("scan tag", err)
		}
		tags = append(tags, t)
	}
	return tags, wrapErr("iterate tags", rows.Err())
}

func (s *leadStorage) CreateTag(ctx context.Context, t *model.Tag) error {
	_, err := s.db.Exec(ctx, "INSERT INTO tags (id, name, color) VALUES ($1, $2, $3)", t.ID, t.Name, t.Color)
	return wrapErr("create tag", err)
}

func (s *leadStorage) AddLeadTag(ctx context.Context, leadID, tagID string) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO lead_tags (lead_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", leadID, tagID)
	return wrapErr("add lead tag", err)
}

func (s *leadStorage) RemoveLeadTag(ctx context.Context, leadID, tagID string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM lead_tags WHERE lead_id = $1 AND tag_id = $2", leadID, tagID)
	return wrapErr("remove lead tag", err)
}

func (s *leadStorage) ListReminders(ctx context.Context, leadID string) ([]model.Reminder, error) {
	const query = `
		SELECT id, lead_id, COALESCE(note, ''), due_at, completed, created_at
		FROM lead_reminders
		WHERE lead_id = $1
		ORDER BY due_at
	`
	rows, err := s.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, wrapErr("list reminders", err)
	}
	defer rows.Close()

	var out []model.Reminder
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ID, &r.LeadID, &r.Note, &r.DueAt, &r.Completed, &r.CreatedAt); err != nil {
			return nil, wrapErr("scan reminder", err)
		}
		out = append(out, r)
	}
	return out, wrapErr("iterate reminders", rows.Err())
}

func (s *leadStorage) CreateReminder(ctx context.Context, r *model.Reminder) error {
	const query = `
		INSERT INTO lead_reminders (id, lead_id, note, due_at, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(ctx, query, r.ID, r.LeadID, r.Note, r.DueAt, r.Completed, r.CreatedAt)
	return wrapErr("create reminder", err)
}

func (s *leadStorage) CompleteReminder(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, "UPDATE lead_reminders SET completed = TRUE WHERE id = $1", id)
	if err != nil {
		return wrapErr("complete reminder", err)
	}
	return requireRows("complete reminder", tag)
}

func (s *leadStorage) ListHistory(ctx context.Context, leadID string) ([]model.HistoryEntry, error) {
	const query = `
		SELECT id, lead_id, action, COALESCE(old_value, ''), COALESCE(new_value, ''),
			COALESCE(actor, ''), created_at
		FROM lead_history
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, wrapErr("list history", err)
	}
	defer rows.Close()

	var out []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		if err := rows.Scan(&h.ID, &h.LeadID, &h.Action, &h.OldValue, &h.NewValue, &h.Actor, &h.CreatedAt); err != nil {
			return nil, wrapErr("scan history", err)
		}
		out = append(out, h)
	}
	return out, wrapErr("iterate history", rows.Err())
}

func (s *leadStorage) AddHistory(ctx context.Context, h *model.HistoryEntry) error {
	const query = `
		INSERT INTO lead_history (id, lead_id, action, old_value, new_value, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query, h.ID, h.LeadID, h.Action, h.OldValue, h.NewValue, h.Actor, h.CreatedAt)
	return wrapErr("add history", err)
}

func (s *leadStorage) ListSavedViews(ctx context.Context, ownerID string) ([]model.SavedView, error) {
	const query = `
		SELECT id, name, filter, owner_id, created_at
		FROM saved_views
		WHERE owner_id = $1
		ORDER BY name
	`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, wrapErr("list saved views", err)
	}
	defer rows.Close()

	var out []model.SavedView
	for rows.Next() {
		var v model.SavedView
		if err := rows.Scan(&v.ID, &v.Name, &v.Filter, &v.OwnerID, &v.CreatedAt); err != nil {
			return nil, wrapErr("scan saved view", err)
		}
		out = append(out, v)
	}
	return out, wrapErr("iterate saved views", rows.Err())
}

func (s *leadStorage) CreateSavedView(ctx context.Context, v *model.SavedView) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO saved_views (id, name, filter, owner_id, created_at) VALUES ($1, $2, $3, $4, $5)",
		v.ID, v.Name, v.Filter, v.OwnerID, v.CreatedAt)
	return wrapErr("create saved view", err)
}

func (s *leadStorage) DeleteSavedView(ctx context.Context, id, ownerID string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM saved_views WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return wrapErr("delete saved view", err)
	}
	return requireRows("delete saved view", tag)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/i18n"
	"github.com/samims/ecowatt/internal/kafka"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/pkg/tracing"
)

const (
	historyCreated       = "created"
	historyStatusChanged = "status_changed"
	historyUpdated       = "updated"
	historyTagAdded      = "tag_added"
	historyTagRemoved    = "tag_removed"

	actorWebsite = "website"
)

// ContactInput is what the public contact and quote forms submit.
type ContactInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Message   string `json:"message"`
}

func (in ContactInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.LastName) == "" {
		return appErr.NewInvalidInput("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return appErr.NewInvalidInput("invalid email %q", in.Email)
	}
	return nil
}

type LeadService interface {
	SubmitContact(ctx context.Context, lang string, in ContactInput) (*model.Lead, error)
	RequestQuote(ctx context.Context, lang string, in ContactInput, items []model.CartItem) (*model.Lead, error)

	List(ctx context.Context, f model.LeadFilter) ([]model.Lead, error)
	Get(ctx context.Context, id string) (*model.Lead, error)
	Create(ctx context.Context, l *model.Lead, actor string) error
	Update(ctx context.Context, l *model.Lead, actor string) error
	ChangeStatus(ctx context.Context, id string, status model.LeadStatus, actor string) (*model.Lead, error)
	Delete(ctx context.Context, id string) error

	ListTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, t *model.Tag) error
	AddTag(ctx context.Context, leadID, tagID, actor string) error
	RemoveTag(ctx context.Context, leadID, tagID, actor string) error

	ListReminders(ctx context.Context, leadID string) ([]model.Reminder, error)
	CreateReminder(ctx context.Context, r *model.Reminder) error
	CompleteReminder(ctx context.Context, id string) error

	History(ctx context.Context, leadID string) ([]model.HistoryEntry, error)

	ListViews(ctx context.Context, ownerID string) ([]model.SavedView, error)
	CreateView(ctx context.Context, v *model.SavedView) error
	DeleteView(ctx context.Context, id, ownerID string) error
}

type leadService struct {
	store     storage.LeadStorage
	publisher kafka.EventPublisher
	logger    *slog.Logger
	tracer    *tracing.Tracer
	now       func() time.Time
}

func NewLeadService(store storage.LeadStorage, publisher kafka.EventPublisher, logger *slog.Logger) LeadService {
	l := logger.With("layer", "service", "component", "leadService")
	return &leadService{
		store:     store,
		publisher: publisher,
		logger:    l,
		tracer:    tracing.New("lead-service"),
		now:       time.Now,
	}
}

func (s *leadService) SubmitContact(ctx context.Context, lang string, in ContactInput) (*model.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	lead := s.leadFromInput(lang, in, model.LeadNew, model.LeadSourceContactForm)
	if err := s.insert(ctx, lead, actorWebsite); err != nil {
		return nil, err
	}
	s.announce(ctx, lead, "New contact request")
	return lead, nil
}

// RequestQuote records a quote request for the given quote-only lines.
func (s *leadService) RequestQuote(ctx context.Context, lang string, in ContactInput, items []model.CartItem) (*model.Lead, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, appErr.NewInvalidInput("a quote request needs at least one product")
	}
	lead := s.leadFromInput(lang, in, model.LeadQuoteRequested, model.LeadSourceQuote)
	lead.Products = items
	if err := s.insert(ctx, lead, actorWebsite); err != nil {
		return nil, err
	}
	s.announce(ctx, lead, "New quote request")
	return lead, nil
}

func (s *leadService) leadFromInput(lang string, in ContactInput, status model.LeadStatus, source string) *model.Lead {
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}
	now := s.now().UTC()
	return &model.Lead{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Message:   in.Message,
		Source:    source,
		Status:    status,
		Language:  lang,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *leadService) insert(ctx context.Context, lead *model.Lead, actor string) error {
	ctx, span := s.tracer.StartServerSpan(ctx, "CreateLead", attribute.String("lead.source", lead.Source))
	defer span.End()

	if err := s.store.CreateLead(ctx, lead); err != nil {
		s.tracer.RecordError(span, err)
		s.logger.Error("failed to create lead", slog.String("source", lead.Source), slog.Any("error", err))
		return appErr.NewInternal("failed to create lead: %v", err)
	}
	s.record(ctx, lead.ID, historyCreated, "", string(lead.Status), actor)
	s.logger.Info("lead created", slog.String("id", lead.ID), slog.String("source", lead.Source))
	return nil
}

// announce publishes a lead event. Bus failures never fail the request.
func (s *leadService) announce(ctx context.Context, lead *model.Lead, title string) {
	ev := model.Event{
		Type:        model.NotificationLead,
		EntityID:    lead.ID,
		Title:       title,
		Description: fmt.Sprintf("%s (%s)", lead.FullName(), lead.Email),
		Link:        "/leads/" + lead.ID,
		CreatedAt:   lead.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("failed to publish lead event", slog.String("id", lead.ID), slog.Any("error", err))
	}
}

// record appends a history entry. History is best effort.
func (s *leadService) record(ctx context.Context, leadID, action, oldValue, newValue, actor string) {
	h := &model.HistoryEntry{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		Actor:     actor,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddHistory(ctx, h); err != nil {
		s.logger.Warn("failed to record lead history",
			slog.String("lead_id", leadID), slog.String("action", action), slog.Any("error", err))
	}
}

func (s *leadService) List(ctx context.Context, f model.LeadFilter) ([]model.Lead, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, appErr.NewInvalidInput("unknown status %q", f.Status)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, appErr.NewInvalidInput("limit and offset must not be negative")
	}
	leads, err := s.store.ListLeads(ctx, f)
	if err != nil {
		s.logger.Error("failed to list leads", slog.Any("error", err))
		return nil, appErr.NewInternal("failed to list leads: %v", err)
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	return leads, nil
}

func (s *leadService) Get(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NewNotFound("lead %s not found", id)
		}
		s.logger.Error("failed to fetch lead", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to fetch lead: %v", err)
	}
	return lead, nil
}

// Create adds a lead entered by hand in the admin.
func (s *leadService) Create(ctx context.Context, l *model.Lead, actor string) error {
	in := ContactInput{FirstName: l.FirstName, LastName: l.LastName, Email: l.Email}
	if err := in.validate(); err != nil {
		return err
	}
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	if !l.Status.Valid() {
		return appErr.NewInvalidInput("unknown status %q", l.Status)
	}
	if l.Source == "" {
		l.Source = model.LeadSourceManual
	}
	if !i18n.IsSupported(l.Language) {
		l.Language = i18n.DefaultLang
	}
	now := s.now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt, l.UpdatedAt = now, now
	return s.insert(ctx, l, actor)
}

// Update overwrites the contact fields of a lead. Status changes go
// through ChangeStatus so they land in the history.
func (s *leadService) Update(ctx context.Context, l *model.Lead, actor string) error {
	current, err := s.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	in := ContactInput{FirstName: l.FirstName, LastName: l.LastName, Email: l.Email}
	if err := in.validate(); err != nil {
		return err
	}
	l.Status = current.Status
	l.Source = current.Source
	l.CreatedAt = current.CreatedAt
	l.UpdatedAt = s.now().UTC()
	if !i18n.IsSupported(l.Language) {
		l.Language = current.Language
	}

	if err := s.store.UpdateLead(ctx, l); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("lead %s not found", l.ID)
		}
		return appErr.NewInternal("failed to update lead: %v", err)
	}
	s.record(ctx, l.ID, historyUpdated, "", "", actor)
	return nil
}

func (s *leadService) ChangeStatus(ctx context.Context, id string, status model.LeadStatus, actor string) (*model.Lead, error) {
	if !status.Valid() {
		return nil, appErr.NewInvalidInput("unknown status %q", status)
	}
	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Status == status {
		return lead, nil
	}

	if err := s.store.UpdateLeadStatus(ctx, id, status); err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NewNotFound("lead %s not found", id)
		}
		s.logger.Error("failed to update lead status", slog.String("id", id), slog.Any("error", err))
		return nil, appErr.NewInternal("failed to update lead status: %v", err)
	}
	s.record(ctx, id, historyStatusChanged, string(lead.Status), string(status), actor)
	s.logger.Info("lead status changed",
		slog.String("id", id), slog.String("from", string(lead.Status)), slog.String("to", string(status)))

	lead.Status = status
	lead.UpdatedAt = s.now().UTC()
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteLead(ctx, id); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("lead %s not found", id)
		}
		return appErr.NewInternal("failed to delete lead: %v", err)
	}
	return nil
}

func (s *leadService) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, appErr.NewInternal("failed to list tags: %v", err)
	}
	return tags, nil
}

func (s *leadService) CreateTag(ctx context.Context, t *model.Tag) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return appErr.NewInvalidInput("tag name is required")
	}
	t.ID = uuid.NewString()
	if err := s.store.CreateTag(ctx, t); err != nil {
		if appErr.IsConflict(err) {
			return appErr.NewConflict("tag %q already exists", t.Name)
		}
		return appErr.NewInternal("failed to create tag: %v", err)
	}
	return nil
}

func (s *leadService) AddTag(ctx context.Context, leadID, tagID, actor string) error {
	if err := s.store.AddLeadTag(ctx, leadID, tagID); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("lead %s or tag %s not found", leadID, tagID)
		}
		return appErr.NewInternal("failed to tag lead: %v", err)
	}
	s.record(ctx, leadID, historyTagAdded, "", tagID, actor)
	return nil
}

func (s *leadService) RemoveTag(ctx context.Context, leadID, tagID, actor string) error {
	if err := s.store.RemoveLeadTag(ctx, leadID, tagID); err != nil {
		return appErr.NewInternal("failed to untag lead: %v", err)
	}
	s.record(ctx, leadID, historyTagRemoved, tagID, "", actor)
	return nil
}

func (s *leadService) ListReminders(ctx context.Context, leadID string) ([]model.Reminder, error) {
	rs, err := s.store.ListReminders(ctx, leadID)
	if err != nil {
		return nil, appErr.NewInternal("failed to list reminders: %v", err)
	}
	return rs, nil
}

func (s *leadService) CreateReminder(ctx context.Context, r *model.Reminder) error {
	if r.LeadID == "" || strings.TrimSpace(r.Note) == "" {
		return appErr.NewInvalidInput("lead and note are required")
	}
	if r.DueAt.IsZero() {
		return appErr.NewInvalidInput("due date is required")
	}
	r.ID = uuid.NewString()
	r.Completed = false
	r.CreatedAt = s.now().UTC()
	if err := s.store.CreateReminder(ctx, r); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("lead %s not found", r.LeadID)
		}
		return appErr.NewInternal("failed to create reminder: %v", err)
	}
	return nil
}

func (s *leadService) CompleteReminder(ctx context.Context, id string) error {
	if err := s.store.CompleteReminder(ctx, id); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("reminder %s not found", id)
		}
		return appErr.NewInternal("failed to complete reminder: %v", err)
	}
	return nil
}

func (s *leadService) History(ctx context.Context, leadID string) ([]model.HistoryEntry, error) {
	hs, err := s.store.ListHistory(ctx, leadID)
	if err != nil {
		return nil, appErr.NewInternal("failed to list history: %v", err)
	}
	return hs, nil
}

func (s *leadService) ListViews(ctx context.Context, ownerID string) ([]model.SavedView, error) {
	vs, err := s.store.ListSavedViews(ctx, ownerID)
	if err != nil {
		return nil, appErr.NewInternal("failed to list saved views: %v", err)
	}
	return vs, nil
}

func (s *leadService) CreateView(ctx context.Context, v *model.SavedView) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return appErr.NewInvalidInput("view name is required")
	}
	if v.Filter.Status != "" && !v.Filter.Status.Valid() {
		return appErr.NewInvalidInput("unknown status %q", v.Filter.Status)
	}
	v.ID = uuid.NewString()
	v.CreatedAt = s.now().UTC()
	if err := s.store.CreateSavedView(ctx, v); err != nil {
		if appErr.IsConflict(err) {
			return appErr.NewConflict("view %q already exists", v.Name)
		}
		return appErr.NewInternal("failed to save view: %v", err)
	}
	return nil
}

func (s *leadService) DeleteView(ctx context.Context, id, ownerID string) error {
	if err := s.store.DeleteSavedView(ctx, id, ownerID); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.NewNotFound("view %s not found", id)
		}
		return appErr.NewInternal("failed to delete view: %v", err)
	}
	return nil
}

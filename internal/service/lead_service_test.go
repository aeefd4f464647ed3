package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
	"github.com/samims/ecowatt/internal/storage"
	"github.com/samims/ecowatt/pkg/tracing"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestLeadService(store storage.LeadStorage, pub *mockPublisher) *leadService {
	return &leadService{
		store:     store,
		publisher: pub,
		logger:    slog.Default(),
		tracer:    tracing.New("lead-service-test"),
		now:       func() time.Time { return fixedNow },
	}
}

func Test_leadService_SubmitContact(t *testing.T) {
	valid := ContactInput{FirstName: "Amina", LastName: "Benali", Email: "amina@example.com", Message: "Hello"}

	tests := []struct {
		name    string
		in      ContactInput
		lang    string
		setup   func(*storage.MockLeadStorage, *mockPublisher)
		wantErr error
	}{
		{
			name: "creates lead and announces it",
			in:   valid,
			lang: "ar",
			setup: func(s *storage.MockLeadStorage, p *mockPublisher) {
				s.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
					return l.Status == model.LeadNew && l.Source == model.LeadSourceContactForm && l.Language == "ar"
				})).Return(nil)
				s.On("AddHistory", mock.Anything, mock.MatchedBy(func(h *model.HistoryEntry) bool {
					return h.Action == historyCreated && h.NewValue == string(model.LeadNew)
				})).Return(nil)
				p.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.Event) bool {
					return ev.Type == model.NotificationLead
				})).Return(nil)
			},
		},
		{
			name: "publish failure does not fail the request",
			in:   valid,
			lang: "fr",
			setup: func(s *storage.MockLeadStorage, p *mockPublisher) {
				s.On("CreateLead", mock.Anything, mock.Anything).Return(nil)
				s.On("AddHistory", mock.Anything, mock.Anything).Return(nil)
				p.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
			},
		},
		{
			name: "unsupported language falls back to french",
			in:   valid,
			lang: "de",
			setup: func(s *storage.MockLeadStorage, p *mockPublisher) {
				s.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
					return l.Language == "fr"
				})).Return(nil)
				s.On("AddHistory", mock.Anything, mock.Anything).Return(nil)
				p.On("Publish", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:    "invalid email",
			in:      ContactInput{FirstName: "A", Email: "nope"},
			lang:    "fr",
			setup:   func(*storage.MockLeadStorage, *mockPublisher) {},
			wantErr: appErr.ErrInvalidInput,
		},
		{
			name:    "missing name",
			in:      ContactInput{Email: "a@example.com"},
			lang:    "fr",
			setup:   func(*storage.MockLeadStorage, *mockPublisher) {},
			wantErr: appErr.ErrInvalidInput,
		},
		{
			name: "backend failure",
			in:   valid,
			lang: "en",
			setup: func(s *storage.MockLeadStorage, _ *mockPublisher) {
				s.On("CreateLead", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
			},
			wantErr: appErr.ErrInternal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMockLeadStorage(t)
			pub := &mockPublisher{}
			tt.setup(store, pub)
			s := NewLeadService(store, pub, slog.Default())

			got, err := s.SubmitContact(context.Background(), tt.lang, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.in.Email, got.Email)
			pub.AssertExpectations(t)
		})
	}
}

func Test_leadService_RequestQuote(t *testing.T) {
	store := storage.NewMockLeadStorage(t)
	pub := &mockPublisher{}
	items := []model.CartItem{{ProductID: "p9", Name: "Heat pump", QuoteOnly: true, Quantity: 1}}

	store.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *model.Lead) bool {
		return l.Status == model.LeadQuoteRequested && l.Source == model.LeadSourceQuote && len(l.Products) == 1
	})).Return(nil)
	store.On("AddHistory", mock.Anything, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	s := NewLeadService(store, pub, slog.Default())
	in := ContactInput{FirstName: "Luc", Email: "luc@example.com"}

	lead, err := s.RequestQuote(context.Background(), "fr", in, items)
	require.NoError(t, err)
	assert.Equal(t, "p9", lead.Products[0].ProductID)

	_, err = s.RequestQuote(context.Background(), "fr", in, nil)
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)
}

func Test_leadService_ChangeStatus(t *testing.T) {
	existing := func() *model.Lead {
		return &model.Lead{ID: "l1", FirstName: "A", Email: "a@example.com", Status: model.LeadNew}
	}

	tests := []struct {
		name    string
		status  model.LeadStatus
		setup   func(*storage.MockLeadStorage)
		want    model.LeadStatus
		wantErr error
	}{
		{
			name:   "records history on change",
			status: model.LeadContacted,
			setup: func(s *storage.MockLeadStorage) {
				s.On("GetLead", mock.Anything, "l1").Return(existing(), nil)
				s.On("UpdateLeadStatus", mock.Anything, "l1", model.LeadContacted).Return(nil)
				s.On("AddHistory", mock.Anything, mock.MatchedBy(func(h *model.HistoryEntry) bool {
					return h.Action == historyStatusChanged && h.OldValue == "new" && h.NewValue == "contacted" && h.Actor == "admin@example.com"
				})).Return(nil)
			},
			want: model.LeadContacted,
		},
		{
			name:   "same status is a no-op",
			status: model.LeadNew,
			setup: func(s *storage.MockLeadStorage) {
				s.On("GetLead", mock.Anything, "l1").Return(existing(), nil)
			},
			want: model.LeadNew,
		},
		{
			name:    "unknown status",
			status:  "archived",
			setup:   func(*storage.MockLeadStorage) {},
			wantErr: appErr.ErrInvalidInput,
		},
		{
			name:   "missing lead",
			status: model.LeadWon,
			setup: func(s *storage.MockLeadStorage) {
				s.On("GetLead", mock.Anything, "l1").Return(nil, appErr.ErrNotFound)
			},
			wantErr: appErr.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMockLeadStorage(t)
			tt.setup(store)
			s := NewLeadService(store, &mockPublisher{}, slog.Default())

			got, err := s.ChangeStatus(context.Background(), "l1", tt.status, "admin@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func Test_leadService_List(t *testing.T) {
	store := storage.NewMockLeadStorage(t)
	f := model.LeadFilter{Status: model.LeadQualified, Search: "acme"}
	store.On("ListLeads", mock.Anything, f).Return(nil, nil)

	s := NewLeadService(store, &mockPublisher{}, slog.Default())
	leads, err := s.List(context.Background(), f)
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)

	_, err = s.List(context.Background(), model.LeadFilter{Status: "bogus"})
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)
}

func Test_leadService_Reminders(t *testing.T) {
	store := storage.NewMockLeadStorage(t)
	store.On("CreateReminder", mock.Anything, mock.MatchedBy(func(r *model.Reminder) bool {
		return r.ID != "" && !r.Completed && r.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	store.On("CompleteReminder", mock.Anything, "missing").Return(appErr.ErrNotFound)

	s := newTestLeadService(store, &mockPublisher{})
	err := s.CreateReminder(context.Background(), &model.Reminder{LeadID: "l1", Note: "call back", DueAt: fixedNow.Add(24 * time.Hour)})
	require.NoError(t, err)

	err = s.CreateReminder(context.Background(), &model.Reminder{LeadID: "l1", Note: "no date"})
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)

	err = s.CompleteReminder(context.Background(), "missing")
	assert.ErrorIs(t, err, appErr.ErrNotFound)
}

func Test_leadService_SavedViews(t *testing.T) {
	store := storage.NewMockLeadStorage(t)
	store.On("CreateSavedView", mock.Anything, mock.Anything).Return(nil)
	store.On("DeleteSavedView", mock.Anything, "v1", "u1").Return(nil)

	s := newTestLeadService(store, &mockPublisher{})
	v := &model.SavedView{Name: " Hot leads ", OwnerID: "u1", Filter: model.LeadFilter{Status: model.LeadQualified}}
	require.NoError(t, s.CreateView(context.Background(), v))
	assert.Equal(t, "Hot leads", v.Name)
	assert.NotEmpty(t, v.ID)

	err := s.CreateView(context.Background(), &model.SavedView{Name: "x", Filter: model.LeadFilter{Status: "nope"}})
	assert.ErrorIs(t, err, appErr.ErrInvalidInput)

	require.NoError(t, s.DeleteView(context.Background(), "v1", "u1"))
}

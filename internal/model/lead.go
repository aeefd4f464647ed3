package model

import "time"

type LeadStatus string

const (
	LeadNew            LeadStatus = "new"
	LeadContacted      LeadStatus = "contacted"
	LeadQualified      LeadStatus = "qualified"
	LeadQuoteRequested LeadStatus = "quote_requested"
	LeadQuoteSent      LeadStatus = "quote_sent"
	LeadWon            LeadStatus = "won"
	LeadLost           LeadStatus = "lost"
)

var leadStatuses = map[LeadStatus]bool{
	LeadNew: true, LeadContacted: true, LeadQualified: true, LeadQuoteRequested: true,
	LeadQuoteSent: true, LeadWon: true, LeadLost: true,
}

func (s LeadStatus) Valid() bool { return leadStatuses[s] }

const (
	LeadSourceContactForm = "contact_form"
	LeadSourceQuote       = "quote_request"
	LeadSourceManual      = "manual"
)

// Lead is a prospective customer tracked through the status pipeline.
type Lead struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	Message   string     `json:"message"`
	Source    string     `json:"source"`
	Status    LeadStatus `json:"status"`
	Language  string     `json:"language"`
	// Products holds the quote-only cart lines attached to a quote request.
	Products  []CartItem `json:"products,omitempty"`
	Tags      []Tag      `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (l Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// LeadFilter narrows the admin lead list. Zero values mean "any".
type LeadFilter struct {
	Status LeadStatus `json:"status,omitempty"`
	Source string     `json:"source,omitempty"`
	Search string     `json:"search,omitempty"`
	TagID  string     `json:"tag_id,omitempty"`
	SortBy string     `json:"sort_by,omitempty"`
	Desc   bool       `json:"desc,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Reminder struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Note      string    `json:"note"`
	DueAt     time.Time `json:"due_at"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry records one change on a lead.
type HistoryEntry struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedView is a named, persisted filter configuration for the lead list.
type SavedView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Filter    LeadFilter `json:"filter"`
	OwnerID   string     `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
}

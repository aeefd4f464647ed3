package model

import "time"

type NotificationType string

const (
	NotificationOrder NotificationType = "order"
	NotificationLead  NotificationType = "lead"
)

func (t NotificationType) Valid() bool {
	return t == NotificationOrder || t == NotificationLead
}

// Notification is one entry of the admin notification feed.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
	// EntityID is the order or lead the notification points at.
	EntityID string `json:"entity_id"`
}

func (n Notification) RecordID() string { return n.ID }

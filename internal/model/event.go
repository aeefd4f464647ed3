package model

import "time"

// Event is published on the event bus for new orders and leads.
// It carries what the admin side needs to build a notification.
type Event struct {
	Type        NotificationType `json:"type"`
	EntityID    string           `json:"entity_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	CreatedAt   time.Time        `json:"created_at"`
}

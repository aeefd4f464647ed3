package model

import "time"

// SEOContent is a server-rendered static page (FAQ, legal notice) in one language.
type SEOContent struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Language        string    `json:"language"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Body            string    `json:"body"`
	Published       bool      `json:"published"`
	UpdatedAt       time.Time `json:"updated_at"`
}

package models

import "time"

// ContentPage is an editable block of site content keyed by slug
// (about, terms, homepage sections).
type ContentPage struct {
	ID        int       `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedBy int       `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertContentPageRequest represents the request body for saving a page
type UpsertContentPageRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

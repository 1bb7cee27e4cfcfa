package models

import "time"

// Site is a customer project/installation. Payments and line items hang
// off a site; deleting a site deletes its images and payments with it.
type Site struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	CustomerID int       `json:"customer_id"`
	Location   string    `json:"location"`
	Status     string    `json:"status"` // active or completed
	Notes      string    `json:"notes"`
	CustomerName string  `json:"customer_name,omitempty"` // Joined from users table
	Images     []SiteImage `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SiteImage struct {
	ID        int       `json:"id"`
	SiteID    int       `json:"site_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// SiteLineItem is a priced product/service line on a site. The billing
// side only reads these to populate "billable for this customer" lists.
type SiteLineItem struct {
	ID          int       `json:"id"`
	SiteID      int       `json:"site_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Amount      float64   `json:"amount"`
	SiteName    string    `json:"site_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSiteRequest represents the request body for creating a site
type CreateSiteRequest struct {
	Name       string `json:"name"`
	CustomerID int    `json:"customer_id"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
	Items      []SiteLineItem `json:"items"`
}

package models

import "time"

// Payment statuses
const (
	StatusUnpaid        = "unpaid"
	StatusPartiallyPaid = "partially_paid"
	StatusPaid          = "paid"
)

// ValidStatus reports whether s is one of the three payment statuses.
func ValidStatus(s string) bool {
	return s == StatusUnpaid || s == StatusPartiallyPaid || s == StatusPaid
}

// Payment is one billed line for one customer on one site. Balance and
// status are derived from amount/paid_amount on every write and stored.
type Payment struct {
	ID            int       `json:"id"`
	BillNumber    string    `json:"bill_number"`
	SiteID        int       `json:"site_id"`
	CustomerID    int       `json:"customer_id"`
	ProductName   string    `json:"product_name"`
	Amount        float64   `json:"amount"`
	PaidAmount    float64   `json:"paid_amount"`
	BalanceAmount float64   `json:"balance_amount"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	ReceiptURL    string    `json:"receipt_url"`
	Notes         string    `json:"notes"`
	SiteName      string    `json:"site_name,omitempty"`     // Joined from sites table
	CustomerName  string    `json:"customer_name,omitempty"` // Joined from users table
	CustomerPhone string    `json:"customer_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreatePaymentRequest represents the request body for creating a payment
type CreatePaymentRequest struct {
	SiteID        int     `json:"site_id"`
	CustomerID    int     `json:"customer_id"`
	ProductName   string  `json:"product_name"`
	Amount        float64 `json:"amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
	ReceiptURL    string  `json:"receipt_url"`
	Notes         string  `json:"notes"`
	BillNumber    string  `json:"bill_number"` // Optional, minted when empty
}

// UpdatePaymentRequest is a partial update: nil fields keep the stored
// value, so a caller omitting paid_amount does not reset it.
type UpdatePaymentRequest struct {
	SiteID        *int     `json:"site_id"`
	CustomerID    *int     `json:"customer_id"`
	ProductName   *string  `json:"product_name"`
	Amount        *float64 `json:"amount"`
	PaidAmount    *float64 `json:"paid_amount"`
	PaymentDate   *string  `json:"payment_date"`
	PaymentMethod *string  `json:"payment_method"`
	TransactionID *string  `json:"transaction_id"`
	ReceiptURL    *string  `json:"receipt_url"`
	Notes         *string  `json:"notes"`
}

// StatusStats is the per-status aggregate: count plus sums of the
// nominal, paid and balance columns.
type StatusStats struct {
	Status       string  `json:"status"`
	Count        int     `json:"count"`
	TotalAmount  float64 `json:"total_amount"`
	TotalPaid    float64 `json:"total_paid"`
	TotalBalance float64 `json:"total_balance"`
}

// GlobalTotals is the coarser dashboard aggregate. Paid and outstanding
// buckets sum the nominal amount, not the paid/balance columns.
type GlobalTotals struct {
	TotalRevenue     float64 `json:"total_revenue"`
	TotalPayments    int     `json:"total_payments"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOutstanding float64 `json:"total_outstanding"`
}

// Bill is the structured rendering of one payment for display/print.
type Bill struct {
	BillNumber    string    `json:"bill_number"`
	SiteName      string    `json:"site_name"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	ProductName   string    `json:"product_name"`
	Amount        float64   `json:"amount"`
	PaidAmount    float64   `json:"paid_amount"`
	BalanceAmount float64   `json:"balance_amount"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
	PaymentMethod string    `json:"payment_method"`
	TransactionID string    `json:"transaction_id"`
	Notes         string    `json:"notes"`
	GeneratedAt   time.Time `json:"generated_at"`
}

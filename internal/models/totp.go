package models

import "time"

// TOTPSecret holds the per-user 2FA enrollment state.
type TOTPSecret struct {
	UserID    int       `json:"user_id"`
	Secret    string    `json:"-"` // Never expose in JSON
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// TOTPSetupResponse is returned when a user starts 2FA enrollment.
type TOTPSetupResponse struct {
	Secret    string `json:"secret"`
	QRCodePNG string `json:"qr_code_png"` // base64-encoded PNG
}

// TOTPVerifyRequest carries the 6-digit code for verification.
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

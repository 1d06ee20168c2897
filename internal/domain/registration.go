package domain

import "time"

type Registration struct {
	ID      uint   `json:"id"`
	EventID uint   `json:"event_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`

	// QRCode holds the rendered image as a base64 PNG data URI. It may be
	// empty when rendering failed; the registration itself still stands.
	QRCode string `json:"qr_code,omitempty"`

	// RegistrationCode is the 8-character uppercase-alphanumeric identifier,
	// unique across all registrations.
	RegistrationCode string `json:"registration_code"`

	IsConfirmed bool      `json:"is_confirmed"`
	CheckedIn   bool      `json:"checked_in"`
	CreatedAt   time.Time `json:"created_at"`
}

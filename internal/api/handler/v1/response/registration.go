package response

import "github.com/eventhub-app/eventhub-api/internal/domain"

// RegistrationCreatedResponse reports the persisted registration plus the
// advisory outcome of the confirmation email dispatch.
type RegistrationCreatedResponse struct {
	Registration domain.Registration `json:"registration"`
	EmailSent    bool                `json:"email_sent"`
}

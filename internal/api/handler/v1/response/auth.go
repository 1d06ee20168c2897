package response

import "github.com/eventhub-app/eventhub-api/internal/domain"

type LoginResponse struct {
	Token string       `json:"token"`
	Admin domain.Admin `json:"admin"`
}

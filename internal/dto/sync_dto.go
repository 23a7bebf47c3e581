package dto

import "github.com/serviceloop/marketplace-backend/internal/models"

// SyncResponse is the login-sync payload. Business is present only when the
// user's role required a provider profile.
type SyncResponse struct {
	User     *models.User            `json:"user"`
	Business *models.ProviderProfile `json:"business,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

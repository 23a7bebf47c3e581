package services

import (
	"context"
	"log/slog"

	"github.com/serviceloop/marketplace-backend/internal/identity"
	"github.com/serviceloop/marketplace-backend/internal/models"
)

// SyncService runs the per-login pipeline: verify the credential, upsert
// the user, then provision the provider profile when the role requires one.
type SyncService struct {
	verifier  identity.Verifier
	users     *UserService
	providers *ProviderService
}

func NewSyncService(verifier identity.Verifier, users *UserService, providers *ProviderService) *SyncService {
	return &SyncService{verifier: verifier, users: users, providers: providers}
}

// Sync verifies idToken and reconciles the claims into storage. Verification
// failures short-circuit before any write. If provisioning fails after the
// user row was committed, the user mutation is kept: the next login re-runs
// Ensure and converges. No compensating rollback.
func (s *SyncService) Sync(ctx context.Context, idToken string) (*models.User, *models.ProviderProfile, error) {
	claims, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, err
	}

	// The requested role comes from the provider-signed role claim only;
	// nothing in the request body can elevate an account.
	user, err := s.users.Upsert(ctx, claims, claims.Role)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.providers.Ensure(ctx, user)
	if err != nil {
		slog.Error("provider profile provisioning failed",
			"uid", user.UID, "user_id", user.ID.String(), "action", "sync", "error", err)
		return nil, nil, err
	}

	return user, profile, nil
}

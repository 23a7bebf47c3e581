package identity

import (
	"context"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/serviceloop/marketplace-backend/internal/config"
	"github.com/stretchr/testify/require"
)

// stalledClient never answers; it sits on the call until the context the
// verifier handed it expires, like a provider that stopped responding.
type stalledClient struct{}

func (stalledClient) VerifyIDTokenAndCheckRevoked(ctx context.Context, _ string) (*auth.Token, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestVerifyEmptyCredential(t *testing.T) {
	// Rejected before the provider is ever contacted.
	v := &FirebaseVerifier{timeout: time.Second}
	_, err := v.Verify(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestVerifyTimesOutAndFailsClosed(t *testing.T) {
	v := &FirebaseVerifier{client: stalledClient{}, timeout: 10 * time.Millisecond}

	start := time.Now()
	_, err := v.Verify(context.Background(), "some-token")
	elapsed := time.Since(start)

	// An unresponsive provider is an invalid credential, never a hang and
	// never a pass-through.
	require.ErrorIs(t, err, ErrInvalidCredential)
	require.Less(t, elapsed, time.Second)
}

func TestNewFirebaseVerifierRequiresCredentials(t *testing.T) {
	_, err := NewFirebaseVerifier(context.Background(), &config.Config{VerifyTimeout: time.Second})
	require.Error(t, err)
}

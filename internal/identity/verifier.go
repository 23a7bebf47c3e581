package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/serviceloop/marketplace-backend/internal/config"
	"google.golang.org/api/option"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Verifier validates an opaque bearer credential against the identity
// provider and returns the normalized claim set.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Claims, error)
}

// tokenVerifier is the slice of *auth.Client the verifier depends on.
type tokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens, including the provider-side
// revocation check. The client is constructed once at process start and
// passed in; there is no package-level handle.
type FirebaseVerifier struct {
	client  tokenVerifier
	timeout time.Duration
}

func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	switch {
	case cfg.HasServiceAccount():
		sa, err := json.Marshal(map[string]string{
			"type":         "service_account",
			"project_id":   cfg.FirebaseProjectID,
			"client_email": cfg.FirebaseClientEmail,
			"private_key":  cfg.FirebasePrivateKey,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal service account: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(sa))
	case cfg.FirebaseCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	default:
		return nil, errors.New("firebase credentials not configured")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, timeout: cfg.VerifyTimeout}, nil
}

// Verify checks signature, expiry and revocation. Any provider failure,
// timeouts included, is reported as an invalid credential: the check fails
// closed rather than letting an unverifiable token through.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Claims, error) {
	if idToken == "" {
		return nil, ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	tok, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return claimsFromToken(tok), nil
}

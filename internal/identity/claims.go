package identity

import (
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/serviceloop/marketplace-backend/internal/models"
)

// Claims is the fixed set of attributes extracted from a verified ID token.
// Anything else the token carries is dropped: an open-ended claim bag would
// bypass the storage schema and is deliberately not supported.
type Claims struct {
	UID            string
	Email          string
	EmailVerified  bool
	Name           string
	Picture        string
	Issuer         string
	AuthTime       time.Time
	SignInProvider string
	Tenant         string

	// Role is the optional `role` custom claim. It is trusted because it is
	// part of the provider-signed token, not caller input. Empty when the
	// claim is absent or not a known tier.
	Role models.Role
}

func claimsFromToken(tok *auth.Token) *Claims {
	c := &Claims{
		UID:            tok.UID,
		Issuer:         tok.Issuer,
		SignInProvider: tok.Firebase.SignInProvider,
		Tenant:         tok.Firebase.Tenant,
	}
	if tok.AuthTime > 0 {
		c.AuthTime = time.Unix(tok.AuthTime, 0).UTC()
	}

	c.Email, _ = tok.Claims["email"].(string)
	c.EmailVerified, _ = tok.Claims["email_verified"].(bool)
	c.Name, _ = tok.Claims["name"].(string)
	c.Picture, _ = tok.Claims["picture"].(string)

	if raw, ok := tok.Claims["role"].(string); ok {
		if role, ok := models.ParseRole(raw); ok {
			c.Role = role
		}
	}
	return c
}

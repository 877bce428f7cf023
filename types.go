package goGate

import (
	"context"
	"time"
)

// Principal is a stored identity record as returned by a
// [PrincipalProvider]. SecretHash is the encoded password hash straight
// from storage; it never leaves the sign-in pipeline.
type Principal struct {
	ID         string
	Email      string
	Name       string
	SecretHash string
}

// SessionPrincipal is the public identity carried by a session token.
// It deliberately has no secret material.
type SessionPrincipal struct {
	ID    string
	Email string
	Name  string
}

// SignInResult is returned by a successful [Engine.SignIn].
type SignInResult struct {
	Principal SessionPrincipal
	Token     string
	ExpiresAt time.Time
}

// Decision is the outcome of gating one request path. When Allow is
// false, Location holds the redirect target.
type Decision struct {
	Allow    bool
	Location string
}

// PrincipalProvider looks up stored identities. Implementations must
// return [ErrPrincipalNotFound] when no record matches the email,
// [ErrDuplicatePrincipal] when more than one does, and wrap any
// transport fault with [ErrLookup]. Email comparison semantics belong
// to the provider (typically a unique index on the backing table).
type PrincipalProvider interface {
	GetByEmail(ctx context.Context, email string) (*Principal, error)
}

// PrincipalProviderFunc adapts a function to a [PrincipalProvider].
type PrincipalProviderFunc func(ctx context.Context, email string) (*Principal, error)

// GetByEmail calls f.
func (f PrincipalProviderFunc) GetByEmail(ctx context.Context, email string) (*Principal, error) {
	return f(ctx, email)
}

// CredentialAuthenticator is the credential-verification half of the
// gate. [Engine] implements it; callers that only sign principals in
// can depend on this instead of the full engine.
type CredentialAuthenticator interface {
	SignIn(ctx context.Context, raw map[string]string) (*SignInResult, error)
}

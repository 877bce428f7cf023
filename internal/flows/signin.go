package flows

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SignInPrincipal is the flow-local principal record.
type SignInPrincipal struct {
	ID         string
	Email      string
	Name       string
	SecretHash string
}

// SignInResult carries the issued session on success. Principal never
// includes the secret hash.
type SignInResult struct {
	Principal SignInPrincipal
	Token     string
	ExpiresAt time.Time
}

// SignInMetrics carries metric IDs needed by the sign-in flow.
type SignInMetrics struct {
	Success       int
	Rejected      int
	RateLimited   int
	LookupFailure int
}

// SignInEvents carries audit event names used by the sign-in flow.
type SignInEvents struct {
	Success     string
	Failure     string
	RateLimited string
	LookupError string
}

// SignInErrors carries host-level sentinel errors used by the sign-in flow.
type SignInErrors struct {
	EngineNotReady      error
	InvalidCredentials  error
	SignInRateLimited   error
	Lookup              error
	PrincipalNotFound   error
	TokenIssuanceFailed error
}

// SignInDeps captures sign-in dependencies.
type SignInDeps struct {
	// EqualizeVerifyTiming runs a dummy verification on the not-found path
	// so its latency is comparable to the wrong-secret path.
	EqualizeVerifyTiming bool
	DummyHash            string

	ClientIPFromContext func(context.Context) string

	ParseCredentials    func(map[string]string) (email, secret string, err error)
	CheckRate           func(ctx context.Context, email, ip string) error
	IncrementRate       func(ctx context.Context, email, ip string) error
	ResetRate           func(ctx context.Context, email, ip string) error
	GetPrincipalByEmail func(ctx context.Context, email string) (*SignInPrincipal, error)
	VerifySecret        func(secret, hash string) bool
	IssueToken          func(ctx context.Context, p *SignInPrincipal) (token string, expiresAt time.Time, err error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, principalID string, err error, metadataBuilder func() map[string]string)
	Warn      func(string, ...any)

	Metrics SignInMetrics
	Events  SignInEvents
	Errors  SignInErrors
}

// RunSignIn executes the credential pipeline: shape validation, throttle
// check, principal lookup, secret verification, token issuance. It stops
// at the first non-success. Shape-invalid submissions return before any
// lookup happens, and every credential rejection collapses to the single
// InvalidCredentials sentinel; only lookup faults stay distinct.
func RunSignIn(ctx context.Context, raw map[string]string, deps SignInDeps) (*SignInResult, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.ClientIPFromContext == nil {
		deps.ClientIPFromContext = func(context.Context) string { return "" }
	}
	if deps.ParseCredentials == nil ||
		deps.GetPrincipalByEmail == nil ||
		deps.VerifySecret == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	email, secret, err := deps.ParseCredentials(raw)
	if err != nil {
		// Rejected before any I/O. No field-level detail crosses this
		// boundary: a malformed email and a short secret are the same
		// rejection as a wrong password.
		deps.MetricInc(deps.Metrics.Rejected)
		deps.EmitAudit(ctx, deps.Events.Failure, false, "", deps.Errors.InvalidCredentials, nil)
		return nil, deps.Errors.InvalidCredentials
	}

	ip := deps.ClientIPFromContext(ctx)

	if deps.CheckRate != nil {
		// Fail closed: a throttle that cannot be consulted denies the
		// attempt rather than waving it through.
		if err := deps.CheckRate(ctx, email, ip); err != nil {
			deps.MetricInc(deps.Metrics.RateLimited)
			deps.EmitAudit(ctx, deps.Events.RateLimited, false, "", deps.Errors.SignInRateLimited, func() map[string]string {
				return map[string]string{"email": email}
			})
			return nil, deps.Errors.SignInRateLimited
		}
	}

	principal, lookupErr := deps.GetPrincipalByEmail(ctx, email)
	if lookupErr != nil {
		if deps.Errors.PrincipalNotFound != nil && errors.Is(lookupErr, deps.Errors.PrincipalNotFound) {
			if deps.EqualizeVerifyTiming && deps.DummyHash != "" {
				deps.VerifySecret(secret, deps.DummyHash)
			}
			return nil, deps.reject(ctx, email, ip)
		}

		deps.MetricInc(deps.Metrics.LookupFailure)
		deps.EmitAudit(ctx, deps.Events.LookupError, false, "", deps.Errors.Lookup, func() map[string]string {
			return map[string]string{"email": email}
		})
		if deps.Errors.Lookup != nil && errors.Is(lookupErr, deps.Errors.Lookup) {
			return nil, lookupErr
		}
		return nil, fmt.Errorf("%w: %v", deps.Errors.Lookup, lookupErr)
	}

	if !deps.VerifySecret(secret, principal.SecretHash) {
		return nil, deps.reject(ctx, email, ip)
	}

	if deps.ResetRate != nil {
		if err := deps.ResetRate(ctx, email, ip); err != nil {
			deps.Warn("goGate: sign-in limiter reset failed")
		}
	}

	token, expiresAt, err := deps.IssueToken(ctx, principal)
	if err != nil {
		deps.EmitAudit(ctx, deps.Events.Failure, false, principal.ID, deps.Errors.TokenIssuanceFailed, nil)
		return nil, fmt.Errorf("%w: %v", deps.Errors.TokenIssuanceFailed, err)
	}

	deps.MetricInc(deps.Metrics.Success)
	deps.EmitAudit(ctx, deps.Events.Success, true, principal.ID, nil, nil)

	return &SignInResult{
		Principal: SignInPrincipal{
			ID:    principal.ID,
			Email: principal.Email,
			Name:  principal.Name,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// reject records a failed attempt and returns the collapsed rejection.
// Not-found and wrong-secret both land here so callers cannot tell them
// apart.
func (deps *SignInDeps) reject(ctx context.Context, email, ip string) error {
	if deps.IncrementRate != nil {
		if err := deps.IncrementRate(ctx, email, ip); err != nil {
			deps.Warn("goGate: sign-in limiter increment failed")
		}
	}
	deps.MetricInc(deps.Metrics.Rejected)
	deps.EmitAudit(ctx, deps.Events.Failure, false, "", deps.Errors.InvalidCredentials, func() map[string]string {
		return map[string]string{"email": email}
	})
	return deps.Errors.InvalidCredentials
}

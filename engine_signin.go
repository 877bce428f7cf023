package goGate

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MrEthical07/goGate/internal/flows"
	"github.com/MrEthical07/goGate/password"
)

// SignIn runs the credential pipeline against a raw submission and
// returns a signed session on success. The submission is a field map as
// received from a login form; see [CredentialFieldEmail] and
// [CredentialFieldSecret].
//
// Every credential failure — malformed input, unknown email, wrong
// secret — returns [ErrInvalidCredentials] with no further detail.
// [ErrSignInRateLimited] and [ErrLookup] stay distinct because they
// say nothing about the credentials. Attach the caller's IP with
// [WithClientIP] to enable per-IP throttling.
func (e *Engine) SignIn(ctx context.Context, raw map[string]string) (*SignInResult, error) {
	if e == nil || e.provider == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunSignIn(ctx, raw, e.signInDeps())
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		Principal: SessionPrincipal{
			ID:    result.Principal.ID,
			Email: result.Principal.Email,
			Name:  result.Principal.Name,
		},
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}, nil
}

// SignInWithPassword is a convenience wrapper for callers that already
// hold the two fields.
func (e *Engine) SignInWithPassword(ctx context.Context, email, secret string) (*SignInResult, error) {
	return e.SignIn(ctx, map[string]string{
		CredentialFieldEmail:  email,
		CredentialFieldSecret: secret,
	})
}

func (e *Engine) signInDeps() flows.SignInDeps {
	deps := flows.SignInDeps{
		EqualizeVerifyTiming: e.config.Security.EqualizeVerifyTiming,
		DummyHash:            e.config.Security.DummyHash,
		ClientIPFromContext:  clientIPFromContext,
		ParseCredentials: func(raw map[string]string) (string, string, error) {
			return parseCredentials(raw, e.config.Credentials.MinSecretLength)
		},
		GetPrincipalByEmail: func(ctx context.Context, email string) (*flows.SignInPrincipal, error) {
			p, err := e.provider.GetByEmail(ctx, email)
			if err != nil {
				// A duplicate email means the store's uniqueness
				// invariant is broken. Surface it as a lookup fault,
				// never as a credential judgement.
				if errors.Is(err, ErrDuplicatePrincipal) {
					return nil, errors.Join(ErrLookup, err)
				}
				return nil, err
			}
			if p == nil {
				return nil, ErrPrincipalNotFound
			}
			return &flows.SignInPrincipal{
				ID:         p.ID,
				Email:      p.Email,
				Name:       p.Name,
				SecretHash: p.SecretHash,
			}, nil
		},
		VerifySecret: password.Verify,
		IssueToken: func(_ context.Context, p *flows.SignInPrincipal) (string, time.Time, error) {
			return e.tokens.Issue(p.ID, p.Email, p.Name)
		},
		MetricInc: func(id int) { e.metricInc(MetricID(id)) },
		EmitAudit: e.emitAudit,
		Warn:      log.Printf,
		Metrics: flows.SignInMetrics{
			Success:       int(MetricSignInSuccess),
			Rejected:      int(MetricSignInRejected),
			RateLimited:   int(MetricSignInRateLimited),
			LookupFailure: int(MetricLookupFailure),
		},
		Events: flows.SignInEvents{
			Success:     auditEventSignInSuccess,
			Failure:     auditEventSignInFailure,
			RateLimited: auditEventSignInRateLimited,
			LookupError: auditEventSignInLookupError,
		},
		Errors: flows.SignInErrors{
			EngineNotReady:      ErrEngineNotReady,
			InvalidCredentials:  ErrInvalidCredentials,
			SignInRateLimited:   ErrSignInRateLimited,
			Lookup:              ErrLookup,
			PrincipalNotFound:   ErrPrincipalNotFound,
			TokenIssuanceFailed: ErrTokenIssuanceFailed,
		},
	}

	if e.limiter != nil {
		deps.CheckRate = e.limiter.CheckSignIn
		deps.IncrementRate = e.limiter.IncrementSignIn
		deps.ResetRate = e.limiter.ResetSignIn
	}

	return deps
}

package goGate

import "errors"

var (
	// ErrInvalidCredentials is the single rejection every failed
	// credential check collapses to: malformed email, short secret,
	// unknown principal, and wrong secret are indistinguishable here.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSignInRateLimited reports an exhausted sign-in attempt budget.
	ErrSignInRateLimited = errors.New("sign-in rate limited")

	// ErrLookup reports a principal store fault. Distinct from
	// ErrInvalidCredentials: the caller could not be judged.
	ErrLookup = errors.New("principal lookup failed")

	// ErrPrincipalNotFound is returned by providers when no record
	// matches. The sign-in pipeline converts it to ErrInvalidCredentials
	// before it reaches a caller.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrDuplicatePrincipal reports more than one stored record for one
	// email. The store's uniqueness invariant is broken; this is never
	// treated as a credential failure.
	ErrDuplicatePrincipal = errors.New("duplicate principal records")

	// ErrTokenInvalid reports a session token that failed verification.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenIssuanceFailed reports that credentials verified but no
	// session token could be signed.
	ErrTokenIssuanceFailed = errors.New("session token issuance failed")

	// ErrEngineNotReady reports use of an engine that was not built.
	ErrEngineNotReady = errors.New("engine not initialized")
)

package flows

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

var (
	errNotReady   = errors.New("engine not initialized")
	errInvalid    = errors.New("invalid credentials")
	errLimited    = errors.New("sign-in rate limited")
	errLookup     = errors.New("principal lookup failed")
	errNotFound   = errors.New("principal not found")
	errTokenIssue = errors.New("session token issuance failed")
	errShape      = errors.New("malformed credentials")
)

type flowHarness struct {
	lookupCalls int
	verifyCalls int
	increments  int
	resets      int
	metrics     map[int]int
	events      []string
}

func (h *flowHarness) deps(stored *SignInPrincipal) SignInDeps {
	h.metrics = map[int]int{}

	return SignInDeps{
		ParseCredentials: func(raw map[string]string) (string, string, error) {
			email, secret := raw["email"], raw["secret"]
			if email == "" || len(secret) < 6 {
				return "", "", errShape
			}
			return email, secret, nil
		},
		GetPrincipalByEmail: func(_ context.Context, email string) (*SignInPrincipal, error) {
			h.lookupCalls++
			if stored == nil || stored.Email != email {
				return nil, errNotFound
			}
			return stored, nil
		},
		VerifySecret: func(secret, hash string) bool {
			h.verifyCalls++
			return hash == "hash:"+secret
		},
		IssueToken: func(_ context.Context, p *SignInPrincipal) (string, time.Time, error) {
			return "token-" + p.ID, time.Now().Add(time.Hour), nil
		},
		IncrementRate: func(context.Context, string, string) error {
			h.increments++
			return nil
		},
		ResetRate: func(context.Context, string, string) error {
			h.resets++
			return nil
		},
		MetricInc: func(id int) { h.metrics[id]++ },
		EmitAudit: func(_ context.Context, event string, _ bool, _ string, _ error, _ func() map[string]string) {
			h.events = append(h.events, event)
		},
		Metrics: SignInMetrics{Success: 1, Rejected: 2, RateLimited: 3, LookupFailure: 4},
		Events:  SignInEvents{Success: "ok", Failure: "fail", RateLimited: "limited", LookupError: "lookup"},
		Errors: SignInErrors{
			EngineNotReady:      errNotReady,
			InvalidCredentials:  errInvalid,
			SignInRateLimited:   errLimited,
			Lookup:              errLookup,
			PrincipalNotFound:   errNotFound,
			TokenIssuanceFailed: errTokenIssue,
		},
	}
}

func storedPrincipal() *SignInPrincipal {
	return &SignInPrincipal{ID: "u-1", Email: "a@b.com", Name: "Ada", SecretHash: "hash:longenough"}
}

func TestRunSignInSuccess(t *testing.T) {
	h := &flowHarness{}
	res, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "longenough"}, h.deps(storedPrincipal()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Principal.ID != "u-1" || res.Principal.Email != "a@b.com" {
		t.Fatalf("unexpected principal: %+v", res.Principal)
	}
	if res.Principal.SecretHash != "" {
		t.Fatal("secret hash leaked into result")
	}
	if res.Token != "token-u-1" {
		t.Fatalf("unexpected token: %s", res.Token)
	}
	if h.lookupCalls != 1 || h.verifyCalls != 1 || h.resets != 1 {
		t.Fatalf("unexpected call counts: %+v", h)
	}
	if h.metrics[1] != 1 {
		t.Fatal("success metric not recorded")
	}
}

func TestRunSignInShapeInvalidSkipsLookup(t *testing.T) {
	h := &flowHarness{}
	_, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "short"}, h.deps(storedPrincipal()))
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if h.lookupCalls != 0 {
		t.Fatalf("lookup must not run for shape-invalid input, got %d calls", h.lookupCalls)
	}
	if h.verifyCalls != 0 {
		t.Fatal("verify must not run for shape-invalid input")
	}
}

func TestRunSignInNotFoundAndWrongSecretIndistinguishable(t *testing.T) {
	h1 := &flowHarness{}
	_, errMissing := RunSignIn(context.Background(), map[string]string{"email": "nobody@b.com", "secret": "longenough"}, h1.deps(storedPrincipal()))

	h2 := &flowHarness{}
	_, errWrong := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "wrongwrong"}, h2.deps(storedPrincipal()))

	if !errors.Is(errMissing, errInvalid) || !errors.Is(errWrong, errInvalid) {
		t.Fatalf("expected both rejections to be invalid credentials, got %v / %v", errMissing, errWrong)
	}
	if errMissing != errWrong {
		t.Fatal("not-found and wrong-secret must return the identical rejection value")
	}
	if h1.increments != 1 || h2.increments != 1 {
		t.Fatal("both rejections must count against the throttle")
	}
}

func TestRunSignInEqualizesTimingOnNotFound(t *testing.T) {
	h := &flowHarness{}
	deps := h.deps(storedPrincipal())
	deps.EqualizeVerifyTiming = true
	deps.DummyHash = "hash:never"

	_, err := RunSignIn(context.Background(), map[string]string{"email": "nobody@b.com", "secret": "longenough"}, deps)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if h.verifyCalls != 1 {
		t.Fatalf("expected one dummy verification, got %d", h.verifyCalls)
	}
}

func TestRunSignInRateLimited(t *testing.T) {
	h := &flowHarness{}
	deps := h.deps(storedPrincipal())
	deps.CheckRate = func(context.Context, string, string) error {
		return errors.New("budget exhausted")
	}

	_, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "longenough"}, deps)
	if !errors.Is(err, errLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if h.lookupCalls != 0 {
		t.Fatal("lookup must not run when throttled")
	}
}

func TestRunSignInLookupFaultStaysDistinct(t *testing.T) {
	h := &flowHarness{}
	deps := h.deps(nil)
	deps.GetPrincipalByEmail = func(context.Context, string) (*SignInPrincipal, error) {
		return nil, fmt.Errorf("%w: connection refused", errLookup)
	}

	_, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "longenough"}, deps)
	if !errors.Is(err, errLookup) {
		t.Fatalf("expected lookup fault, got %v", err)
	}
	if errors.Is(err, errInvalid) {
		t.Fatal("lookup fault must not collapse into invalid credentials")
	}
	if h.metrics[4] != 1 {
		t.Fatal("lookup failure metric not recorded")
	}
}

func TestRunSignInWrapsUnknownLookupError(t *testing.T) {
	h := &flowHarness{}
	deps := h.deps(nil)
	deps.GetPrincipalByEmail = func(context.Context, string) (*SignInPrincipal, error) {
		return nil, errors.New("socket closed")
	}

	_, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "longenough"}, deps)
	if !errors.Is(err, errLookup) {
		t.Fatalf("expected wrap into lookup fault, got %v", err)
	}
}

func TestRunSignInTokenIssuanceFailure(t *testing.T) {
	h := &flowHarness{}
	deps := h.deps(storedPrincipal())
	deps.IssueToken = func(context.Context, *SignInPrincipal) (string, time.Time, error) {
		return "", time.Time{}, errors.New("no signing key")
	}

	_, err := RunSignIn(context.Background(), map[string]string{"email": "a@b.com", "secret": "longenough"}, deps)
	if !errors.Is(err, errTokenIssue) {
		t.Fatalf("expected token issuance failure, got %v", err)
	}
}

func TestRunSignInMissingDeps(t *testing.T) {
	deps := SignInDeps{Errors: SignInErrors{EngineNotReady: errNotReady}}
	_, err := RunSignIn(context.Background(), map[string]string{}, deps)
	if !errors.Is(err, errNotReady) {
		t.Fatalf("expected engine not ready, got %v", err)
	}
}

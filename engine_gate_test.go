package goGate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goGate/route"
)

func signedInToken(t *testing.T, engine *Engine) string {
	t.Helper()

	result, err := engine.SignIn(context.Background(), rawCredentials("ada@example.com", "hunter2-long"))
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return result.Token
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))

	d := engine.GateRequest("/dashboard", "")
	if d.Allow {
		t.Fatal("expected redirect for unauthenticated request")
	}
	if d.Location != "/login" {
		t.Fatalf("redirect location = %q, want /login", d.Location)
	}
}

func TestGateAllowsValidSession(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))
	token := signedInToken(t, engine)

	d := engine.GateRequest("/dashboard", token)
	if !d.Allow {
		t.Fatalf("expected allow, got redirect to %q", d.Location)
	}
}

func TestGateRedirectsGarbageToken(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))

	d := engine.GateRequest("/dashboard", "not.a.token")
	if d.Allow {
		t.Fatal("expected redirect for garbage token")
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricTokenInvalid] != 1 {
		t.Fatalf("invalid-token counter = %d, want 1", snap.Counters[MetricTokenInvalid])
	}
}

func TestGateExemptionsBeforeSessionCheck(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))

	// Exempt paths pass even with a garbage token present.
	exempt := []string{
		"/api/health",
		"/_next/static/chunk.js",
		"/_next/image",
		"/hero.png",
		"/login",
	}
	for _, path := range exempt {
		if d := engine.GateRequest(path, "not.a.token"); !d.Allow {
			t.Fatalf("%s: expected exempt, got redirect to %q", path, d.Location)
		}
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricTokenInvalid] != 0 {
		t.Fatal("exempt paths must not cost a token parse")
	}
	if snap.Counters[MetricGateExempt] != uint64(len(exempt)) {
		t.Fatalf("exempt counter = %d, want %d", snap.Counters[MetricGateExempt], len(exempt))
	}
}

func TestGateSignInPathAlwaysExempt(t *testing.T) {
	cfg := testConfig()
	cfg.Routes.SignInPath = "/auth/signin"
	cfg.Routes.Exemptions = nil

	engine, err := New().
		WithConfig(cfg).
		WithPrincipalProvider(seededProvider(t)).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	if d := engine.GateRequest("/auth/signin", ""); !d.Allow {
		t.Fatal("sign-in path must be reachable without a session")
	}
	if d := engine.GateRequest("/dashboard", ""); d.Allow || d.Location != "/auth/signin" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestGateCustomRuleOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Routes.Exemptions = []route.Spec{
		route.Exact("/status"),
		route.Prefix("/public"),
		route.Glob("*.ico"),
	}

	engine, err := New().
		WithConfig(cfg).
		WithPrincipalProvider(seededProvider(t)).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	for path, wantAllow := range map[string]bool{
		"/status":          true,
		"/status/detail":   false,
		"/public/logo.svg": true,
		"/favicon.ico":     true,
		"/api/health":      false, // defaults replaced, not merged
		"/dashboard":       false,
	} {
		d := engine.GateRequest(path, "")
		if d.Allow != wantAllow {
			t.Fatalf("%s: allow = %v, want %v", path, d.Allow, wantAllow)
		}
	}
}

func TestGateRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Session.TTL = 50 * time.Millisecond

	engine, err := New().
		WithConfig(cfg).
		WithPrincipalProvider(seededProvider(t)).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	token := signedInToken(t, engine)
	time.Sleep(80 * time.Millisecond)

	if d := engine.GateRequest("/dashboard", token); d.Allow {
		t.Fatal("expired token must redirect")
	}
	if _, err := engine.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateRoundTrip(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))
	token := signedInToken(t, engine)

	principal, err := engine.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if principal.ID != "p-1" || principal.Email != "ada@example.com" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if _, err := engine.Validate("tampered." + token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestGateDecisionIsRepeatable(t *testing.T) {
	engine := newTestEngine(t, seededProvider(t))
	token := signedInToken(t, engine)

	// One representative pair per outcome: exempt, allow, redirect on
	// a missing token, redirect on a garbage token.
	pairs := []struct {
		path  string
		token string
	}{
		{"/_next/static/chunk.js", "not.a.token"},
		{"/dashboard", token},
		{"/dashboard", ""},
		{"/dashboard", "not.a.token"},
	}

	for _, p := range pairs {
		first := engine.GateRequest(p.path, p.token)
		for i := 0; i < 5; i++ {
			if got := engine.GateRequest(p.path, p.token); got != first {
				t.Fatalf("(%s, %.12q): call %d returned %+v, first returned %+v",
					p.path, p.token, i+2, got, first)
			}
		}
	}
}

func TestGateLatencyHistogram(t *testing.T) {
	engine, err := New().
		WithConfig(testConfig()).
		WithPrincipalProvider(seededProvider(t)).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	for i := 0; i < 10; i++ {
		engine.GateRequest("/dashboard", "")
	}

	snap := engine.MetricsSnapshot()
	buckets := snap.Histograms[MetricGateLatency]
	if len(buckets) != 8 {
		t.Fatalf("bucket count = %d, want 8", len(buckets))
	}
	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 10 {
		t.Fatalf("histogram total = %d, want 10", total)
	}
}

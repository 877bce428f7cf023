package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"
)

func hs256Config() Config {
	return Config{
		TTL:           time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("test-secret"),
		Issuer:        "gogate-test",
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero TTL", Config{SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{"negative leeway", Config{TTL: time.Hour, Leeway: -time.Second, SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{"hs256 without key", Config{TTL: time.Hour, SigningMethod: MethodHS256}},
		{"ed25519 without public key", Config{TTL: time.Hour, SigningMethod: MethodEd25519}},
		{"unknown method", Config{TTL: time.Hour, SigningMethod: "rs512"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewManager(tt.cfg); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

func TestIssueAndParseHS256(t *testing.T) {
	m, err := NewManager(hs256Config())
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	token, expiresAt, err := m.Issue("u-1", "a@b.com", "Ada")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expiry not in the future")
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "u-1" || claims.Email != "a@b.com" || claims.Name != "Ada" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("missing jti")
	}
	if strings.Contains(token, "a@b.com") {
		t.Fatal("claims must be encoded, not raw in the compact form")
	}
}

func TestIssueAndParseEd25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation: %v", err)
	}

	m, err := NewManager(Config{
		TTL:           time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	token, _, err := m.Issue("u-2", "b@c.com", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "u-2" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := hs256Config()
	cfg.TTL = time.Nanosecond
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}

	token, _, err := m.Issue("u-3", "c@d.com", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	m1, _ := NewManager(hs256Config())

	cfg := hs256Config()
	cfg.PrivateKey = []byte("other-secret")
	m2, _ := NewManager(cfg)

	token, _, err := m1.Issue("u-4", "d@e.com", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := m2.Parse(token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m, _ := NewManager(hs256Config())
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := m.Parse(tok); err == nil {
			t.Fatalf("expected garbage token %q to be rejected", tok)
		}
	}
}

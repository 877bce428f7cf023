package goGate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/goGate/jwt"
	"github.com/MrEthical07/goGate/password"
	"github.com/MrEthical07/goGate/route"
)

// SessionConfig controls session token issuance and verification.
type SessionConfig struct {
	TTL           time.Duration
	SigningMethod jwt.SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
}

// RouteConfig controls the gate's path handling. Exemptions are matched
// in order; the first hit wins. SignInPath is both the redirect target
// for unauthenticated requests and an implicit exemption (a gate that
// redirects to a path it guards would loop forever).
type RouteConfig struct {
	SignInPath string
	Exemptions []route.Spec
}

// CredentialConfig controls credential shape validation.
type CredentialConfig struct {
	// MinSecretLength is counted in characters, not bytes.
	MinSecretLength int
}

// SecurityConfig controls sign-in throttling and timing hardening.
type SecurityConfig struct {
	EnableIPThrottle  bool
	MaxSignInAttempts int
	SignInCooldown    time.Duration

	// EqualizeVerifyTiming runs a verification against DummyHash when no
	// principal matches, so the not-found path costs about as much as
	// the wrong-secret path.
	EqualizeVerifyTiming bool
	DummyHash            string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds events instead of blocking attempt handling when
	// the buffer is full. Dropped counts are observable via
	// [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config is the full engine configuration. Zero value is not usable;
// start from [DefaultConfig].
type Config struct {
	Session     SessionConfig
	Routes      RouteConfig
	Credentials CredentialConfig
	Security    SecurityConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

// DefaultConfig returns the baseline configuration: 24h ed25519
// sessions, the standard asset exemptions, six-character secrets, and
// timing equalization on. Signing keys must still be supplied.
func DefaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:           24 * time.Hour,
			SigningMethod: jwt.MethodEd25519,
		},
		Routes: RouteConfig{
			SignInPath: "/login",
			Exemptions: route.DefaultSpecs(),
		},
		Credentials: CredentialConfig{
			MinSecretLength: 6,
		},
		Security: SecurityConfig{
			EnableIPThrottle:     true,
			MaxSignInAttempts:    5,
			SignInCooldown:       time.Minute,
			EqualizeVerifyTiming: true,
			DummyHash:            password.DummyHash,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate reports the first configuration defect found. Key material
// is validated by the token manager at build time, not here.
func (c Config) Validate() error {
	if c.Session.TTL <= 0 {
		return errors.New("Session.TTL must be positive")
	}
	switch c.Session.SigningMethod {
	case jwt.MethodEd25519, jwt.MethodHS256:
	default:
		return fmt.Errorf("unsupported signing method %q", c.Session.SigningMethod)
	}
	if c.Session.Leeway < 0 {
		return errors.New("Session.Leeway must not be negative")
	}

	if c.Routes.SignInPath == "" || !strings.HasPrefix(c.Routes.SignInPath, "/") {
		return fmt.Errorf("Routes.SignInPath %q must start with /", c.Routes.SignInPath)
	}

	if c.Credentials.MinSecretLength < 1 {
		return errors.New("Credentials.MinSecretLength must be at least 1")
	}

	if c.Security.MaxSignInAttempts < 1 {
		return errors.New("Security.MaxSignInAttempts must be at least 1")
	}
	if c.Security.SignInCooldown <= 0 {
		return errors.New("Security.SignInCooldown must be positive")
	}
	if c.Security.EqualizeVerifyTiming && c.Security.DummyHash == "" {
		return errors.New("Security.EqualizeVerifyTiming requires a DummyHash")
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("Audit.BufferSize must be at least 1 when audit is enabled")
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Session.PrivateKey = cloneBytes(cfg.Session.PrivateKey)
	out.Session.PublicKey = cloneBytes(cfg.Session.PublicKey)
	if cfg.Routes.Exemptions != nil {
		out.Routes.Exemptions = make([]route.Spec, len(cfg.Routes.Exemptions))
		copy(out.Routes.Exemptions, cfg.Routes.Exemptions)
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

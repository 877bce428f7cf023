package goGate

import (
	"errors"

	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/jwt"
	"github.com/MrEthical07/goGate/route"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Not safe for concurrent use; build
// once and share the engine.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	provider  PrincipalProvider
	auditSink AuditSink

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing sign-in throttling.
// Without it the engine runs with throttling disabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPrincipalProvider supplies the identity store. Required.
func (b *Builder) WithPrincipalProvider(p PrincipalProvider) *Builder {
	b.provider = p
	return b
}

// WithAuditSink supplies the audit destination and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the counter registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the gate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. A builder is
// single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.provider == nil {
		return nil, errors.New("principal provider required")
	}

	// The sign-in path is always exempt, appended last so explicit
	// rules keep priority.
	specs := make([]route.Spec, 0, len(cfg.Routes.Exemptions)+1)
	specs = append(specs, cfg.Routes.Exemptions...)
	specs = append(specs, route.Exact(cfg.Routes.SignInPath))

	matcher, err := route.Compile(specs)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.Session.TTL,
		SigningMethod: cfg.Session.SigningMethod,
		PrivateKey:    cloneBytes(cfg.Session.PrivateKey),
		PublicKey:     cloneBytes(cfg.Session.PublicKey),
		Issuer:        cfg.Session.Issuer,
		Audience:      cfg.Session.Audience,
		Leeway:        cfg.Session.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:   cfg,
		matcher:  matcher,
		tokens:   tokens,
		provider: b.provider,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	if b.redis != nil {
		engine.limiter = rate.New(b.redis, rate.Config{
			EnableIPThrottle: cfg.Security.EnableIPThrottle,
			MaxAttempts:      cfg.Security.MaxSignInAttempts,
			Cooldown:         cfg.Security.SignInCooldown,
		})
	}

	b.built = true

	return engine, nil
}

var _ CredentialAuthenticator = (*Engine)(nil)

package goGate

import (
	"fmt"
	"time"
)

// GateRequest decides one request. Exemption rules are consulted before
// the session token: an exempt path is allowed no matter what the
// request carries, so static assets and the sign-in page never cost a
// signature check. Non-exempt paths require a valid token; anything
// else redirects to the sign-in path.
//
// The decision is pure: no I/O, no stored session state, path and token
// only. Query strings are ignored by the rules, so callers should pass
// the bare path.
func (e *Engine) GateRequest(path, token string) Decision {
	if e == nil || e.matcher == nil {
		// An unbuilt engine fails closed.
		return Decision{Allow: false, Location: e.SignInPath()}
	}

	start := time.Now()
	d := e.gate(path, token)
	e.metricObserve(MetricGateLatency, time.Since(start))

	return d
}

func (e *Engine) gate(path, token string) Decision {
	if e.matcher.Exempt(path) {
		e.metricInc(MetricGateExempt)
		return Decision{Allow: true}
	}

	if token == "" {
		e.metricInc(MetricGateRedirect)
		return Decision{Allow: false, Location: e.config.Routes.SignInPath}
	}

	if _, err := e.tokens.Parse(token); err != nil {
		e.metricInc(MetricTokenInvalid)
		e.metricInc(MetricGateRedirect)
		return Decision{Allow: false, Location: e.config.Routes.SignInPath}
	}

	e.metricInc(MetricGateAllow)
	return Decision{Allow: true}
}

// Validate parses a session token and returns the principal it names.
// Returns [ErrTokenInvalid] for anything unparseable, expired, or
// signed with the wrong key.
func (e *Engine) Validate(token string) (*SessionPrincipal, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		e.metricInc(MetricTokenInvalid)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return &SessionPrincipal{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}

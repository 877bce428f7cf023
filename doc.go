// Package goGate is an embeddable access gate: it turns submitted
// credentials into a signed session token, and turns a request path plus
// session state into an allow-or-redirect decision.
//
// The two entry points are [Engine.SignIn] and [Engine.GateRequest].
// Everything else — principal lookup, secret verification, throttling,
// route exemptions — hangs off those two. Construct an [Engine] through
// [New] and its builder options.
package goGate

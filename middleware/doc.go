// Package middleware adapts a goGate.Engine to net/http. [Gate] applies
// the engine's decision to every request: exempt and authenticated
// requests pass through (with the session principal injected into the
// request context), everything else is redirected to the sign-in path.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// make gating decisions itself — all decisions are delegated to
// Engine.GateRequest and Engine.Validate.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Engine).
//   - Inspect request bodies or query strings; the gate is path-only.
//   - Grant access on any signal other than the Engine's decision.
package middleware

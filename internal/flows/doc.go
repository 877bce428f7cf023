// Package flows contains the pure-function orchestrator behind Engine
// operations.
//
// RunSignIn accepts a typed dependency struct and returns results without
// side effects beyond those dependencies, so the whole credential pipeline
// is unit-testable with plain function mocks and the Engine type stays
// thin.
//
// # Architecture boundaries
//
// The flow coordinates credential parsing, the throttle, the principal
// lookup, the verifier, token issuance, audit, and metrics. It does NOT
// own any of those resources — ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goGate (to avoid import cycles).
//   - Perform I/O directly — all I/O is mediated through dependencies.
package flows

// Package rate provides the Redis-backed failed sign-in throttle.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key
// prefixes:
//   - gg:si:u:  — sign-in attempts per email
//   - gg:si:ip: — sign-in attempts per client IP
//
// Counters grow only on failed attempts and reset on success, so a correct
// sign-in is never throttled by its own earlier typos once it lands.
//
// # What this package must NOT do
//
//   - Decide what counts as a failed attempt (the sign-in flow does).
//   - Be imported outside the goGate module.
package rate

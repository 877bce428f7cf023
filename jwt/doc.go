// Package jwt issues and verifies the signed session tokens that carry a
// goGate session principal between requests. Tokens are self-contained:
// the gate needs no store round-trip to decide whether a presented token
// still satisfies "valid".
package jwt

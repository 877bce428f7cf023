package goGate

import (
	"errors"
	"net/mail"
	"unicode/utf8"
)

// Field names expected in a raw credential submission.
const (
	CredentialFieldEmail  = "email"
	CredentialFieldSecret = "password"
)

var errMalformedCredentials = errors.New("malformed credentials")

// parseCredentials checks the shape of a raw submission before any
// storage or hashing work happens. It returns the email and the secret
// exactly as submitted, or an error that the caller collapses into the
// generic rejection. Which field was bad is intentionally not reported.
//
// The email is never normalized: no trimming, no case-folding. What the
// caller submitted is what gets looked up, and anything that is not a
// bare address in that exact form is rejected.
func parseCredentials(raw map[string]string, minSecretLength int) (string, string, error) {
	email := raw[CredentialFieldEmail]
	secret := raw[CredentialFieldSecret]

	if email == "" || secret == "" {
		return "", "", errMalformedCredentials
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		// Only the bare addr-spec form is a credential identifier.
		// Display-name forms like `Ada <a@b.com>` parse, and padded
		// forms like ` a@b.com ` parse and normalize, but neither is
		// the exact address somebody typed into a login field.
		return "", "", errMalformedCredentials
	}

	if utf8.RuneCountInString(secret) < minSecretLength {
		return "", "", errMalformedCredentials
	}

	return email, secret, nil
}

package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// DummyHash is a syntactically valid argon2id hash whose digest can never be
// reproduced from any input. The sign-in flow verifies against it when no
// principal was found, so the not-found path performs the same amount of
// work as the wrong-secret path.
//
//nolint:gosec // Not a credential: an intentionally unmatchable hash.
const DummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

const (
	maxMemoryKB   uint32 = 1 << 20 // 1 GiB
	maxTimeCost   uint32 = 16
	maxSaltLength        = 64
	maxKeyLength         = 128
)

// Hash produces a bcrypt hash of secret at the default cost. It exists so
// hosts, examples, and tests can provision credentials; verification always
// goes through [Verify].
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret must not be empty")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether secret matches the stored hash. The comparison is
// one-way and constant-time where the underlying primitive supports it.
// Malformed, truncated, or unrecognized hashes return false; Verify never
// panics and never reports an error.
func Verify(secret, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, "$2a$"),
		strings.HasPrefix(encoded, "$2b$"),
		strings.HasPrefix(encoded, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(secret)) == nil
	case strings.HasPrefix(encoded, "$argon2id$"):
		ok, err := verifyArgon2id(secret, encoded)
		return err == nil && ok
	default:
		return false
	}
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func verifyArgon2id(secret, encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey([]byte(secret), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(derived, p.hash) == 1, nil
}

// parsePHC decodes $argon2id$v=19$m=<kb>,t=<n>,p=<n>$<salt>$<hash>.
func parsePHC(encoded string) (*parsedPHC, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errors.New("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, errors.New("malformed argon2id version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	p := &parsedPHC{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.parallelism); err != nil {
		return nil, errors.New("malformed argon2id parameters")
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, errors.New("invalid argon2id parameters")
	}
	// Caps bound the work a hostile stored hash can demand from Verify.
	if p.memory > maxMemoryKB || p.time > maxTimeCost {
		return nil, errors.New("argon2id parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 || len(salt) > maxSaltLength {
		return nil, errors.New("malformed argon2id salt")
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 || len(hash) > maxKeyLength {
		return nil, errors.New("malformed argon2id digest")
	}

	p.salt = salt
	p.hash = hash
	return p, nil
}

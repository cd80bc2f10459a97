package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const secretBytes = 32

// GenerateSecret mints a high-entropy single-use secret for email
// verification and password reset links. The raw value goes into the emailed
// link; only its digest is ever persisted, so a read-only compromise of the
// store cannot be used to forge links.
func GenerateSecret() (raw, digest string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate secret: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, DigestSecret(raw), nil
}

// DigestSecret recomputes the stored fingerprint of a raw secret.
func DigestSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

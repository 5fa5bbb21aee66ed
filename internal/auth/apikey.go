// Package auth verifies the admin API key used by roster and reporting
// endpoints. Device ingestion endpoints are deliberately unauthenticated.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used when hashing a new admin key.
const BcryptCost = 12

var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// AdminKeyVerifier checks Bearer credentials against a single configured
// admin key, supplied either in plain form (compared constant-time) or as
// a bcrypt hash.
type AdminKeyVerifier struct {
	plainKey string
	keyHash  string
}

func NewAdminKeyVerifier(plainKey, keyHash string) *AdminKeyVerifier {
	return &AdminKeyVerifier{plainKey: plainKey, keyHash: keyHash}
}

// Enabled reports whether any admin credential is configured. With no
// credential the admin surface is refused outright rather than left open.
func (v *AdminKeyVerifier) Enabled() bool {
	return v.plainKey != "" || v.keyHash != ""
}

func (v *AdminKeyVerifier) VerifyRequest(r *http.Request) error {
	if r == nil {
		return ErrMissingAPIKey
	}
	return v.Verify(r.Header.Get("Authorization"))
}

func (v *AdminKeyVerifier) Verify(authHeader string) error {
	if !v.Enabled() {
		return ErrInvalidAPIKey
	}

	key, err := keyFromHeader(authHeader)
	if err != nil {
		return err
	}

	if v.keyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(v.keyHash), []byte(key)) != nil {
			return ErrInvalidAPIKey
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(v.plainKey)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

func keyFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingAPIKey
	}
	key := strings.TrimSpace(parts[1])
	if key == "" || !utf8.ValidString(key) {
		return "", ErrInvalidAPIKey
	}
	return key, nil
}

// HashAdminKey produces a bcrypt hash suitable for ADMIN_API_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

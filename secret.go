package mqttacl

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// unusableSecretPrefix marks a stored secret that can never verify.
// SetUnusableSecret stores such a value so a rule can require a secret
// while accepting none.
const unusableSecretPrefix = "!"

// HashSecret hashes a raw secret for storage with bcrypt at the
// default cost.
func HashSecret(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifySecret checks a raw secret against a stored bcrypt hash.
// Empty, unusable, or malformed hashes verify as false, never as an
// error: a broken stored credential is a deny, not a crash. The
// underlying bcrypt comparison is constant-time.
func VerifySecret(raw, storedHash string) bool {
	if storedHash == "" || strings.HasPrefix(storedHash, unusableSecretPrefix) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)) == nil
}

// UnusableSecret returns a stored-secret value that never verifies.
func UnusableSecret() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return unusableSecretPrefix + hex.EncodeToString(buf[:])
}

// HasUsableSecret reports whether the rule carries a secret that could
// verify a supplied value.
func (r *ACLRule) HasUsableSecret() bool {
	return r.Secret != "" && !strings.HasPrefix(r.Secret, unusableSecretPrefix)
}

// SetSecret hashes and stores a raw secret on the rule.
func (r *ACLRule) SetSecret(raw string) error {
	hash, err := HashSecret(raw)
	if err != nil {
		return err
	}
	r.Secret = hash
	return nil
}

// SetUnusableSecret stores a value that will never be a valid hash.
func (r *ACLRule) SetUnusableSecret() {
	r.Secret = UnusableSecret()
}

// CheckSecret verifies a raw secret against the rule's stored hash.
func (r *ACLRule) CheckSecret(raw string) bool {
	return VerifySecret(raw, r.Secret)
}

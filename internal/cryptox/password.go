// Package cryptox implements the password hasher: a deterministic,
// one-way transform of a plaintext secret into a fixed-length digest that
// is stored at registration and compared at login.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// DigestSize is the raw digest length in bytes; hex digests are twice as long.
const DigestSize = 32

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams match the cost used for key derivation elsewhere in the
// project: one pass over 64 MiB with four lanes.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// PasswordHasher derives digests with argon2id under an application-wide
// salt. The same plaintext always yields the same digest, so a digest can
// be compared directly with the one stored in the accounts table.
type PasswordHasher struct {
	salt   []byte
	params Params
}

func NewPasswordHasher(salt []byte, params Params) *PasswordHasher {
	s := make([]byte, len(salt))
	copy(s, salt)
	return &PasswordHasher{salt: s, params: params}
}

// Hash returns the hex encoded digest of plaintext.
func (h *PasswordHasher) Hash(plaintext []byte) string {
	key := argon2.IDKey(plaintext, h.salt, h.params.Time, h.params.Memory, h.params.Threads, DigestSize)
	return hex.EncodeToString(key)
}

// Verify reports whether plaintext hashes to digest, in constant time.
func (h *PasswordHasher) Verify(plaintext []byte, digest string) bool {
	candidate := h.Hash(plaintext)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

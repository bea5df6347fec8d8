package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 draws 16 random bytes and returns them as exactly 32 lowercase hex
// characters, no separators or prefixes. Used for every public identifier
// (accounts, loans, shares, transactions) next to the numeric primary keys.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Valid reports whether s is a well-formed public id: 32 lowercase hex chars.
func Valid(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

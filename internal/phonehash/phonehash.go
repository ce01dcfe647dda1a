// Package phonehash implements the shared phone-number hashing contract used
// by both the mobile client and the server to match contacts without
// exchanging raw phone numbers.
//
// The algorithm is a versioned cross-component contract: strip every non-digit
// character, keep only the final 10 digits, SHA-256 the resulting digit
// string, encode as lowercase hex. Both sides must produce bit-identical
// output or contact matching silently breaks, so any future change must ship
// as a new version constant rather than an edit to Hash.
package phonehash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Version identifies the current hashing contract. Bump (and add a HashV2)
// instead of changing Hash in place.
const Version = 1

// digitsKept is the number of trailing digits retained after normalization.
// Keeping only the last 10 digits absorbs country-code and formatting
// variance; two numbers sharing their last 10 digits intentionally collide.
const digitsKept = 10

// Normalize strips non-digit characters and keeps the last 10 digits.
// Inputs shorter than 10 digits are kept whole rather than rejected.
func Normalize(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) > digitsKept {
		digits = digits[len(digits)-digitsKept:]
	}
	return string(digits)
}

// Hash returns the lowercase hex SHA-256 digest of the normalized phone
// number. It is total over any input string; the empty string is a valid,
// if useless, input.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(Normalize(raw)))
	return hex.EncodeToString(sum[:])
}

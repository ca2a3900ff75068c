// Package daily picks a deterministic required letter per UTC day, so every
// game created on the same date shares a letter.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Alphabet is the set of letters a daily game can draw. Letters with very
// few common words in one or more categories are left out.
const Alphabet = "abcdefghjklmnoprstw"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns HMAC(salt, YYYY-MM-DD) mod n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Letter returns the letter of the day for salt.
func Letter(date time.Time, salt string) string {
	i := Index(date, salt, len(Alphabet))
	return Alphabet[i : i+1]
}

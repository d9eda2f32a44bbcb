// Package daily picks a reproducible target equation per calendar day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/nerdle/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Target returns the day's equation from u (or from pool, when non-nil).
func Target(date time.Time, salt string, u *words.Universe, pool *words.Set) string {
	list := u.Words()
	if pool != nil {
		list = pool.Words()
	}
	if len(list) == 0 {
		return ""
	}
	return list[Index(date, salt, len(list))]
}

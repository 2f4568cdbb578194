package rsvp

import (
	crand "crypto/rand"
	"encoding/hex"
	"log"
	mrand "math/rand"
	"time"
)

// NewCheckinToken returns a 128-bit token as 32 lowercase hex chars.
// When the secure random source fails it degrades to math/rand instead
// of refusing the RSVP; the degraded path is logged loudly because such
// tokens are guessable.
func NewCheckinToken() string {
	b := make([]byte, 16)
	if _, err := crand.Read(b); err != nil {
		log.Printf("⚠️ secure random source unavailable, generating DEGRADED check-in token: %v", err)
		r := mrand.New(mrand.NewSource(time.Now().UnixNano()))
		for i := range b {
			b[i] = byte(r.Intn(256))
		}
	}
	return hex.EncodeToString(b)
}

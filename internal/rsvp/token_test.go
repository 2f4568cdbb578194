package rsvp

import (
	"regexp"
	"testing"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestNewCheckinTokenFormat(t *testing.T) {
	token := NewCheckinToken()
	if !tokenPattern.MatchString(token) {
		t.Errorf("token %q is not 32 lowercase hex chars", token)
	}
}

func TestNewCheckinTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token := NewCheckinToken()
		if seen[token] {
			t.Fatalf("duplicate token after %d draws: %s", i, token)
		}
		seen[token] = true
	}
}

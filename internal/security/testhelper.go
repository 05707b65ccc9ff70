package security

import "time"

// NewTestTokenProvider returns an HS256 TokenProvider with a fixed secret.
// For unit tests only.
func NewTestTokenProvider() *TokenProvider {
	p, err := NewTokenProvider([]byte("test-signing-secret"), "HS256", "user-service", 15*time.Minute)
	if err != nil {
		panic(err)
	}
	return p
}

package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p := NewTestTokenProvider()

	token, exp, err := p.Issue("alice", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	username, userID, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if username != "alice" || userID != 42 {
		t.Errorf("Validate: got username=%q userID=%d", username, userID)
	}
}

func TestTokenProvider_ValidateInvalid(t *testing.T) {
	p := NewTestTokenProvider()
	_, _, err := p.Validate("invalid-token")
	if err != ErrInvalidToken {
		t.Errorf("Validate invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateWrongSecret(t *testing.T) {
	p := NewTestTokenProvider()
	token, _, err := p.Issue("alice", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenProvider([]byte("a-different-secret"), "HS256", "user-service", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	if _, _, err := other.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate with wrong secret: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateWrongIssuer(t *testing.T) {
	issuer, err := NewTokenProvider([]byte("test-signing-secret"), "HS256", "someone-else", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := issuer.Issue("alice", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p := NewTestTokenProvider()
	if _, _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate with wrong issuer: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateExpired(t *testing.T) {
	p, err := NewTokenProvider([]byte("test-signing-secret"), "HS256", "user-service", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	token, _, err := p.Issue("alice", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate expired token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateMissingUserID(t *testing.T) {
	p := NewTestTokenProvider()
	token, _, err := p.Issue("alice", 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate token without user id: want ErrInvalidToken, got %v", err)
	}
}

func TestNewTokenProvider_Rejects(t *testing.T) {
	if _, err := NewTokenProvider(nil, "HS256", "user-service", time.Minute); err == nil {
		t.Error("empty secret should be rejected")
	}
	if _, err := NewTokenProvider([]byte("secret"), "RS256", "user-service", time.Minute); err == nil {
		t.Error("non-HMAC algorithm should be rejected")
	}
	if _, err := NewTokenProvider([]byte("secret"), "none", "user-service", time.Minute); err == nil {
		t.Error("none algorithm should be rejected")
	}
	if _, err := NewTokenProvider([]byte("secret"), "HS384", "user-service", time.Minute); err != nil {
		t.Errorf("HS384 should be accepted: %v", err)
	}
}

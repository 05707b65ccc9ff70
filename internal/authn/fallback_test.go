package authn

import (
	"context"
	"errors"
	"testing"

	"recipe-sharing-platform/backend/internal/security"
)

type stubVerifier struct {
	id    *Identity
	err   error
	calls int
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	s.calls++
	return s.id, s.err
}

func TestFallbackVerifier_LocalSuccessSkipsRemote(t *testing.T) {
	tokens := security.NewTestTokenProvider()
	token, _, err := tokens.Issue("alice", 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	remote := &stubVerifier{err: ErrDependencyUnavailable}
	v := NewFallbackVerifier(NewLocalVerifier(tokens), remote)

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != 42 {
		t.Errorf("Verify: got id=%d", id.ID)
	}
	if remote.calls != 0 {
		t.Errorf("remote called %d times, want 0", remote.calls)
	}
}

func TestFallbackVerifier_LocalFailureTriesRemote(t *testing.T) {
	remote := &stubVerifier{id: &Identity{ID: 7, Username: "bob"}}
	v := NewFallbackVerifier(NewLocalVerifier(security.NewTestTokenProvider()), remote)

	id, err := v.Verify(context.Background(), "locally-unverifiable")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != 7 || id.Username != "bob" {
		t.Errorf("Verify: got id=%d username=%q", id.ID, id.Username)
	}
	if remote.calls != 1 {
		t.Errorf("remote called %d times, want 1", remote.calls)
	}
}

func TestFallbackVerifier_BothFail(t *testing.T) {
	remote := &stubVerifier{err: ErrInvalidCredential}
	v := NewFallbackVerifier(NewLocalVerifier(security.NewTestTokenProvider()), remote)

	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Verify: want ErrInvalidCredential, got %v", err)
	}
}

func TestFallbackVerifier_RemoteUnavailable(t *testing.T) {
	remote := &stubVerifier{err: ErrDependencyUnavailable}
	v := NewFallbackVerifier(NewLocalVerifier(security.NewTestTokenProvider()), remote)

	if _, err := v.Verify(context.Background(), "bad"); !errors.Is(err, ErrDependencyUnavailable) {
		t.Errorf("Verify: want ErrDependencyUnavailable, got %v", err)
	}
}

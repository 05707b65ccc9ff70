package authn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteVerifier_Verify(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "username": "alice"}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second, 0)
	id, err := v.Verify(context.Background(), "sometoken")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != 42 || id.Username != "alice" {
		t.Errorf("Verify: got id=%d username=%q", id.ID, id.Username)
	}
	if gotAuth != "Bearer sometoken" {
		t.Errorf("Authorization header: got %q", gotAuth)
	}
}

func TestRemoteVerifier_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second, 0)
	_, err := v.Verify(context.Background(), "badtoken")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Verify rejected token: want ErrInvalidCredential, got %v", err)
	}
}

func TestRemoteVerifier_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 0}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second, 0)
	if _, err := v.Verify(context.Background(), "sometoken"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Verify with incomplete identity: want ErrInvalidCredential, got %v", err)
	}
}

func TestRemoteVerifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	v := NewRemoteVerifier(srv.URL, time.Second, 0)
	_, err := v.Verify(context.Background(), "sometoken")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Errorf("Verify against dead peer: want ErrDependencyUnavailable, got %v", err)
	}
}

func TestRemoteVerifier_ProbeBeforeVerify(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"status": "healthy", "service": "user-service"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": 7, "username": "bob"}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second, time.Second)
	id, err := v.Verify(context.Background(), "sometoken")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.ID != 7 {
		t.Errorf("Verify: got id=%d", id.ID)
	}
	if len(paths) != 2 || paths[0] != "/" || paths[1] != "/users/me" {
		t.Errorf("request order: got %v", paths)
	}
}

func TestRemoteVerifier_ProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	v := NewRemoteVerifier(srv.URL, time.Second, time.Second)
	_, err := v.Verify(context.Background(), "sometoken")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Errorf("Verify with dead probe target: want ErrDependencyUnavailable, got %v", err)
	}
}

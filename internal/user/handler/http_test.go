package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"recipe-sharing-platform/backend/internal/security"
	"recipe-sharing-platform/backend/internal/user/domain"
	"recipe-sharing-platform/backend/internal/user/service"
)

type mockRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func newTestRouter() chi.Router {
	auth := service.NewAuthService(newMockRepo(), security.NewHasher(4), security.NewTestTokenProvider())
	r := chi.NewRouter()
	New(auth).Mount(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/users",
		`{"username": "alice", "email": "alice@example.com", "password": "password123"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status: got %d, body %s", rec.Code, rec.Body)
	}
	var u map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u["username"] != "alice" || u["is_active"] != true {
		t.Errorf("register body: %v", u)
	}
	if _, ok := u["password_hash"]; ok {
		t.Error("register response must not leak the password hash")
	}

	rec = doJSON(t, r, http.MethodPost, "/login",
		`{"username": "alice", "password": "password123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status: got %d, body %s", rec.Code, rec.Body)
	}
	var tok map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &tok)
	if tok["access_token"] == "" || tok["token_type"] != "bearer" {
		t.Errorf("login body: %v", tok)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newTestRouter()
	body := `{"username": "alice", "email": "alice@example.com", "password": "password123"}`
	if rec := doJSON(t, r, http.MethodPost, "/users", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: got %d", rec.Code)
	}
	rec := doJSON(t, r, http.MethodPost, "/users",
		`{"username": "alice", "email": "other@example.com", "password": "password123"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status: got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter()
	doJSON(t, r, http.MethodPost, "/users",
		`{"username": "alice", "email": "alice@example.com", "password": "password123"}`)

	rec := doJSON(t, r, http.MethodPost, "/login",
		`{"username": "alice", "password": "nope"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status: got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["detail"] != "Incorrect username or password" {
		t.Errorf("detail: got %q", body["detail"])
	}
}

func TestMe(t *testing.T) {
	r := newTestRouter()
	doJSON(t, r, http.MethodPost, "/users",
		`{"username": "alice", "email": "alice@example.com", "password": "password123"}`)
	rec := doJSON(t, r, http.MethodPost, "/login",
		`{"username": "alice", "password": "password123"}`)
	var tok map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &tok)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok["access_token"])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status: got %d, body %s", rec.Code, rec.Body)
	}
	var u map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &u)
	if u["username"] != "alice" {
		t.Errorf("me body: %v", u)
	}
}

func TestMeRejections(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodGet, "/users/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me without header: got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Errorf("me with garbage token: got %d", rec2.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec2.Body.Bytes(), &body)
	if body["detail"] != "Invalid token" {
		t.Errorf("detail: got %q", body["detail"])
	}
}

func TestGetUserByID(t *testing.T) {
	r := newTestRouter()
	doJSON(t, r, http.MethodPost, "/users",
		`{"username": "alice", "email": "alice@example.com", "password": "password123"}`)

	rec := doJSON(t, r, http.MethodGet, "/users/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get user status: got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/users/999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing user status: got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["detail"] != "User not found" {
		t.Errorf("detail: got %q", body["detail"])
	}
}

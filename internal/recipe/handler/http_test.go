package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"recipe-sharing-platform/backend/internal/authn"
	"recipe-sharing-platform/backend/internal/authz"
	"recipe-sharing-platform/backend/internal/recipe/domain"
	"recipe-sharing-platform/backend/internal/recipe/service"
	"recipe-sharing-platform/backend/internal/security"
	"recipe-sharing-platform/backend/internal/server/middleware"
)

type mockRepo struct {
	mu      sync.Mutex
	nextID  int64
	recipes map[int64]*domain.Recipe
}

func newMockRepo() *mockRepo {
	return &mockRepo{nextID: 1, recipes: make(map[int64]*domain.Recipe)}
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.recipes[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRepo) List(ctx context.Context, skip, limit int) ([]*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.recipes))
	for id := range m.recipes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.Recipe, 0)
	for i, id := range ids {
		if i < skip {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *m.recipes[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockRepo) Create(ctx context.Context, rec *domain.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.nextID
	m.nextID++
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	m.recipes[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, p domain.Patch) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recipes[id]
	if !ok {
		return nil, nil
	}
	p.Apply(rec)
	cp := *rec
	return &cp, nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return false, nil
	}
	delete(m.recipes, id)
	return true, nil
}

type fixture struct {
	router chi.Router
	tokens *security.TokenProvider
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gate, err := authz.NewGate(context.Background())
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	tokens := security.NewTestTokenProvider()

	r := chi.NewRouter()
	New(service.New(newMockRepo(), gate)).Mount(r, middleware.RequireAuth(authn.NewLocalVerifier(tokens)))
	return &fixture{router: r, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != 0 {
		token, _, err := f.tokens.Issue("user", userID)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func detail(rec *httptest.ResponseRecorder) string {
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body["detail"]
}

func TestCreateRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/recipes", `{"title": "Tomato Soup"}`, 0)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated create: got %d", rec.Code)
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/recipes",
		`{"title": "Tomato Soup", "description": "simple", "cooking_time": 30}`, 42)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body)
	}
	var created map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created["user_id"] != float64(42) {
		t.Errorf("owner: got %v", created["user_id"])
	}

	rec = f.do(t, http.MethodGet, "/recipes/1", "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("public get: got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/recipes/999", "", 0)
	if rec.Code != http.StatusNotFound || detail(rec) != "Recipe not found" {
		t.Errorf("missing recipe: got %d %q", rec.Code, detail(rec))
	}
}

func TestListPublic(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"A", "B", "C"} {
		f.do(t, http.MethodPost, `/recipes`, `{"title": "`+title+`"}`, 42)
	}

	rec := f.do(t, http.MethodGet, "/recipes?skip=1&limit=1", "", 0)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: got %d", rec.Code)
	}
	var out []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out) != 1 || out[0]["title"] != "B" {
		t.Errorf("list skip=1 limit=1: got %v", out)
	}
}

func TestUpdateMergePatch(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/recipes",
		`{"title": "Tomato Soup", "description": "old", "cooking_time": 30}`, 42)

	rec := f.do(t, http.MethodPut, "/recipes/1", `{"description": "new"}`, 42)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, body %s", rec.Code, rec.Body)
	}
	var updated map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated["title"] != "Tomato Soup" || updated["description"] != "new" || updated["cooking_time"] != float64(30) {
		t.Errorf("merge patch: got %v", updated)
	}
}

func TestUpdateNonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/recipes", `{"title": "Tomato Soup"}`, 42)

	rec := f.do(t, http.MethodPut, "/recipes/1", `{"title": "Stolen"}`, 7)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner update: got %d", rec.Code)
	}
	if detail(rec) != "Not authorized to update this recipe" {
		t.Errorf("detail: got %q", detail(rec))
	}

	rec = f.do(t, http.MethodGet, "/recipes/1", "", 0)
	var got map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["title"] != "Tomato Soup" {
		t.Errorf("rejected update must not persist, got %v", got["title"])
	}
}

func TestUpdateMissingRecipe(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPut, "/recipes/999", `{"title": "x"}`, 42)
	if rec.Code != http.StatusNotFound || detail(rec) != "Recipe not found" {
		t.Errorf("missing recipe update: got %d %q", rec.Code, detail(rec))
	}
}

func TestDeleteThenGone(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/recipes", `{"title": "Tomato Soup"}`, 42)

	rec := f.do(t, http.MethodDelete, "/recipes/1", "", 7)
	if rec.Code != http.StatusForbidden || detail(rec) != "Not authorized to delete this recipe" {
		t.Fatalf("non-owner delete: got %d %q", rec.Code, detail(rec))
	}

	rec = f.do(t, http.MethodDelete, "/recipes/1", "", 42)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "Recipe deleted successfully" {
		t.Errorf("delete message: got %q", body["message"])
	}

	rec = f.do(t, http.MethodGet, "/recipes/1", "", 0)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted recipe should 404, got %d", rec.Code)
	}
}

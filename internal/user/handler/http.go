// Package handler exposes the user service HTTP surface: registration, login,
// the /users/me resolution endpoint peers fall back to, and public user reads.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"recipe-sharing-platform/backend/internal/server/middleware"
	"recipe-sharing-platform/backend/internal/user/domain"
	"recipe-sharing-platform/backend/internal/user/service"
)

// Handler serves the user service routes.
type Handler struct {
	auth *service.AuthService
}

// New returns a user handler backed by the given auth service.
func New(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Mount registers the user routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/users", h.Register)
	r.Post("/login", h.Login)
	r.Get("/users/me", h.Me)
	r.Get("/users/{id}", h.GetByID)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Register handles POST /users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken),
			errors.Is(err, service.ErrEmailTaken),
			errors.Is(err, service.ErrInvalidInput):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /login and mints the bearer credential.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.WriteError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
}

// Me handles GET /users/me: the identity-owning service's contribution to the
// verification protocol. Peers call it with the bearer token during fallback.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractBearer(r.Header.Get("Authorization"))
	if token == "" {
		middleware.WriteError(w, http.StatusUnauthorized, "Authorization header with Bearer token required")
		return
	}

	u, err := h.auth.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			middleware.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// GetByID handles GET /users/{id}. Public read, no auth.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	u, err := h.auth.GetByID(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if u == nil {
		middleware.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-sharing-platform/backend/internal/security"
	"recipe-sharing-platform/backend/internal/user/domain"
	"recipe-sharing-platform/backend/internal/user/repository"
)

// Sentinel errors for the auth service; the handler maps them to HTTP status codes.
var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	// ErrInvalidInput wraps request-shape validation failures (missing
	// username, email, or password).
	ErrInvalidInput = errors.New("invalid input")
)

// Token is the credential returned by Login.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// AuthService implements registration, login (token mint), and the
// authoritative token-to-identity resolution behind GET /users/me.
type AuthService struct {
	users  repository.Repository
	hasher *security.Hasher
	tokens *security.TokenProvider
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users repository.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a user with the given username, email, and password.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	u := &domain.User{
		Username: username,
		Email:    email,
		IsActive: true,
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hashed

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login authenticates username/password and mints a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Token, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(u.Username, u.ID)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt}, nil
}

// Resolve is the "who is this token" lookup: it validates the token's
// signature and expiry, then confirms the subject still exists and is active
// in the identity store. The user service never trusts a token's claims
// without the store check, making this the authoritative answer peers fall
// back to.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	username, userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Username != username || !u.IsActive {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// GetByID returns the user for id, or nil if not found. Public read.
func (s *AuthService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

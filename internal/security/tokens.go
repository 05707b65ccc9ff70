package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or
	// signed with the wrong secret. Verification failure is an expected,
	// frequent outcome, never a fault.
	ErrInvalidToken = errors.New("invalid token")
)

// AccessClaims holds JWT claims for the access token. Subject carries the
// username; UserID carries the numeric identity id. Both must be present for
// the token to resolve to an identity.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// TokenProvider issues and validates access tokens signed with a symmetric
// secret (HS256, HS384, or HS512). The secret and algorithm are shared
// out-of-band between services via configuration; validity is determined
// purely by signature and expiry, never by server-side state.
type TokenProvider struct {
	secret    []byte
	method    jwt.SigningMethod
	issuer    string
	accessTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with secret using the named
// HMAC algorithm. The secret is injected configuration, never a baked-in
// default. Returns an error for an empty secret or a non-HMAC algorithm.
func NewTokenProvider(secret []byte, algorithm, issuer string, accessTTL time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("security: signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("security: algorithm must be HS256, HS384, or HS512")
	}
	return &TokenProvider{
		secret:    secret,
		method:    method,
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// Issue mints an access token for the given username and user id.
// Returns the signed token and its expiration time.
func (p *TokenProvider) Issue(username string, userID int64) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	}
	token, err = jwt.NewWithClaims(p.method, claims).SignedString(p.secret)
	return token, expiresAt, err
}

// Validate parses and validates the token (signature, expiry) and returns the
// username and user id from its claims. A token that validates but is missing
// either claim is still ErrInvalidToken: a malformed trusted token is a
// rejection, not a crash.
func (p *TokenProvider) Validate(tokenString string) (username string, userID int64, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return "", 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return "", 0, ErrInvalidToken
	}
	if p.issuer != "" && claims.Issuer != p.issuer {
		return "", 0, ErrInvalidToken
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return "", 0, ErrInvalidToken
	}
	return claims.Subject, claims.UserID, nil
}

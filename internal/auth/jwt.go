package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/social-network/internal/apperror"
)

// tokenIssuer is checked on validation so tokens minted by other apps
// sharing a secret (misconfiguration) are still rejected.
const tokenIssuer = "social-network"

// tokenLifetime is how long an issued token stays valid. There is no
// refresh flow; the client re-authenticates after expiry.
const tokenLifetime = 24 * time.Hour

// TokenService issues and validates HS256-signed JWTs. The user's internal
// ID travels in the standard "sub" claim, the username in a custom claim so
// the identity is displayable without a DB lookup.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production
// (e.g. JWT_SECRET=$(openssl rand -hex 32)).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Identity is the verified (userID, username) pair extracted from a token.
// This is the only thing the authorization logic ever learns about the
// caller — credential verification happened at login time.
type Identity struct {
	UserID   string
	Username string
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given user.
func (s *TokenService) Generate(userID, username string) (string, error) {
	return s.generate(userID, username, tokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID, username string, d time.Duration) (string, error) {
	return s.generate(userID, username, d)
}

func (s *TokenService) generate(userID, username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the identity it
// encodes. Signature, expiry, issuer, and signing algorithm are all checked
// by the jwt library; pinning the method list prevents algorithm-confusion
// tokens from being accepted.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperror.Unauthorized("token expired")
		}
		return Identity{}, apperror.Unauthorized("invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, apperror.Unauthorized("invalid token claims")
	}
	if c.Subject == "" {
		return Identity{}, apperror.Unauthorized("token has no subject")
	}

	return Identity{UserID: c.Subject, Username: c.Username}, nil
}

package usecase

import (
	"errors"
	"fmt"
	"time"

	"connect4-backend/internal/apperror"
	authdomain "connect4-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator verifies access tokens minted by the account service.
type Authenticator interface {
	Principal(token string) (*authdomain.Principal, error)
	Issue(p authdomain.Principal, ttl time.Duration) (string, error)
}

type claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type jwtAuthenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) Authenticator {
	return &jwtAuthenticator{secret: []byte(secret)}
}

// Principal validates an HS256 token and returns its subject. The user directory is
// not consulted.
func (a *jwtAuthenticator) Principal(tokenString string) (*authdomain.Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnauthenticated, err)
	}
	if !token.Valid || c.Subject == "" {
		return nil, apperror.ErrUnauthenticated
	}
	return &authdomain.Principal{
		ID:       c.Subject,
		Username: c.Username,
		Roles:    c.Roles,
	}, nil
}

// Issue mints a token for p. Used by tooling and tests.
func (a *jwtAuthenticator) Issue(p authdomain.Principal, ttl time.Duration) (string, error) {
	if p.ID == "" {
		return "", errors.New("principal id is required")
	}
	now := time.Now()
	c := claims{
		Username: p.Username,
		Roles:    p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(a.secret)
}

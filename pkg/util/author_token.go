package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const authorTokenIssuer = "animeroast"

// AuthorClaims identify an anonymous commenter. Subject is the author id that
// ownership checks compare against.
type AuthorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func (c *AuthorClaims) AuthorID() string {
	return c.Subject
}

type AuthorToken struct {
	Token     string    `json:"token"`
	AuthorID  string    `json:"author_id"`
	Name      string    `json:"author_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateAuthorToken issues a signed token for a new author id. An empty
// authorID allocates a fresh one.
func GenerateAuthorToken(authorID, name, secret string, expiry time.Duration) (*AuthorToken, error) {
	if secret == "" {
		return nil, fmt.Errorf("author token secret is empty")
	}
	if authorID == "" {
		authorID = uuid.NewString()
	}

	now := time.Now()
	expiresAt := now.Add(expiry)
	claims := AuthorClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authorID,
			Issuer:    authorTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign author token: %w", err)
	}

	return &AuthorToken{
		Token:     signed,
		AuthorID:  authorID,
		Name:      name,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateAuthorToken verifies signature, issuer and expiry.
func ValidateAuthorToken(tokenString, secret string) (*AuthorClaims, error) {
	claims := &AuthorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(authorTokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

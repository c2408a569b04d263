package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidKey   = errors.New("invalid operator key")
	ErrInvalidToken = errors.New("invalid token")
)

// Service issues and verifies the bearer tokens that gate mutating API
// routes. A single shared operator key is exchanged for a short-lived JWT.
type Service struct {
	secret      []byte
	operatorKey string
	ttl         time.Duration
}

func NewService(secret, operatorKey string, ttl time.Duration) *Service {
	return &Service{
		secret:      []byte(secret),
		operatorKey: operatorKey,
		ttl:         ttl,
	}
}

// IssueToken exchanges the operator key for a signed JWT.
func (s *Service) IssueToken(operatorKey string) (string, error) {
	if operatorKey == "" || operatorKey != s.operatorKey {
		return "", ErrInvalidKey
	}

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "operator",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token.
func (s *Service) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	return nil
}

// Middleware rejects requests without a valid bearer token.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		if err := s.Verify(token); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

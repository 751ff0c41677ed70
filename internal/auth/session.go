package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"docportal/internal/model"
)

// DefaultSessionLifetime is how long an issued session token stays valid.
const DefaultSessionLifetime = 8 * time.Hour

// Claims represents the identity carried by a session token.
type Claims struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session belongs to an admin.
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == model.RoleAdmin
}

// SessionConfig configures the session codec.
type SessionConfig struct {
	Secret   []byte
	Lifetime time.Duration
}

// SessionCodec issues and validates signed session tokens.
type SessionCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewSessionCodec creates a codec signing with cfg.Secret.
func NewSessionCodec(cfg SessionConfig) *SessionCodec {
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = DefaultSessionLifetime
	}
	return &SessionCodec{
		secret:   cfg.Secret,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Lifetime returns the validity window of issued tokens.
func (s *SessionCodec) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for the user that expires after the session lifetime.
func (s *SessionCodec) Issue(user *model.User) (string, error) {
	if user == nil {
		return "", errors.New("issue session: nil user")
	}

	now := s.now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the signature and expiry of a token.
// Every failure, including a malformed token, is reported as ok == false.
func (s *SessionCodec) Validate(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, false
	}
	// RFC 7519 leaves exp optional; sessions require it.
	if claims.ExpiresAt == nil {
		return nil, false
	}

	return claims, true
}

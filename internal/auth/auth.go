package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims. The registered ID (jti) carries the
// session id so every token can be checked against the sessions table. Nonce
// makes two tokens issued in the same second distinct.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	Nonce     string `json:"nonce"`
	jwt.RegisteredClaims
}

func (c *Claims) SessionID() string {
	return c.ID
}

// TokenGeneratorAPI signs and verifies access and refresh tokens.
type TokenGeneratorAPI interface {
	GenerateAccessToken(sessionID, userID, email string) (token string, expiresAt time.Time, err error)
	GenerateRefreshToken(sessionID, userID, email string) (token string, expiresAt time.Time, err error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// Session is one signed-in device. Only a hash of the refresh token is kept.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// SessionRepository stores sessions. Get returns ErrSessionNotFound for
// unknown ids.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	// Rotate replaces the refresh token hash only while the session is live
	// and still holds currentHash. Otherwise it returns ErrSessionNotFound.
	Rotate(ctx context.Context, id, currentHash, nextHash string, expiresAt time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
}

// AuthSession is what register, login and refresh hand back to the client.
type AuthSession struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	Now                func() time.Time
}

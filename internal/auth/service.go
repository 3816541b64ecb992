package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrSessionNotFound = internal.NewNotFoundError("Session not found", internal.ErrCodeSessionNotFound)

// Service is the main auth service with dependencies
type Service struct {
	users          user.Repository
	sessions       SessionRepository
	tokenGenerator TokenGeneratorAPI
	publisher      events.Publisher
	bcryptCost     int
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new auth service
func NewService(users user.Repository, sessions SessionRepository, tokenGen TokenGeneratorAPI, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:          users,
		sessions:       sessions,
		tokenGenerator: tokenGen,
		publisher:      publisher,
		bcryptCost:     bcryptCost,
		logger:         logger,
		now:            time.Now,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
		Now:                time.Now,
	}
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthSession, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewProviderError("Failed to register account", err)
	}

	u := &user.User{
		Email:        user.NormalizeEmail(dto.Email),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			s.logger.Warn("register: email already registered", "email", u.Email)
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("register: failed to create account", "error", err)
		return nil, internal.NewProviderError("Failed to register account", err)
	}

	s.logger.Info("account registered", "user_id", u.ID)
	return s.issueSession(ctx, u)
}

// Login validates credentials and returns a new session.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthSession, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("login: failed to load account", "error", err)
		return nil, internal.NewProviderError("Failed to sign in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	return s.issueSession(ctx, u)
}

func (s *Service) issueSession(ctx context.Context, u *user.User) (*AuthSession, error) {
	sessionID := uuid.NewString()

	accessToken, accessExp, err := s.tokenGenerator.GenerateAccessToken(sessionID, u.ID, u.Email)
	if err != nil {
		return nil, internal.NewProviderError("Failed to issue token", err)
	}
	refreshToken, refreshExp, err := s.tokenGenerator.GenerateRefreshToken(sessionID, u.ID, u.Email)
	if err != nil {
		return nil, internal.NewProviderError("Failed to issue token", err)
	}

	if err := s.sessions.Create(ctx, &Session{
		ID:               sessionID,
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        refreshExp,
		CreatedAt:        s.now(),
	}); err != nil {
		s.logger.Error("failed to store session", "error", err, "user_id", u.ID)
		return nil, internal.NewProviderError("Failed to start session", err)
	}

	s.logger.Info("session started", "user_id", u.ID, "session_id", sessionID)
	return &AuthSession{
		SessionID:    sessionID,
		UserID:       u.ID,
		Email:        u.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

// loadLiveSession returns the stored session when it is neither revoked nor expired.
func (s *Service) loadLiveSession(ctx context.Context, id string) (*Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewProviderError("Failed to load session", err)
	}
	if session.IsRevoked() {
		return nil, internal.ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, internal.ErrTokenExpired
	}
	return session, nil
}

// Refresh rotates both tokens of a live session. Presenting a refresh token
// that was already rotated revokes the session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	if err := (RefreshTokenDTO{RefreshToken: refreshToken}).Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.loadLiveSession(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(session.RefreshTokenHash), []byte(hashToken(refreshToken))) != 1 {
		s.logger.Warn("refresh token reuse detected, revoking session", "session_id", session.ID, "user_id", session.UserID)
		if err := s.sessions.Revoke(ctx, session.ID, s.now()); err != nil {
			s.logger.Error("failed to revoke session", "error", err, "session_id", session.ID)
		}
		s.publishRevoked(ctx, session.ID, session.UserID)
		return nil, internal.ErrInvalidToken
	}

	accessToken, accessExp, err := s.tokenGenerator.GenerateAccessToken(session.ID, claims.UserID, claims.Email)
	if err != nil {
		return nil, internal.NewProviderError("Failed to issue token", err)
	}
	newRefresh, refreshExp, err := s.tokenGenerator.GenerateRefreshToken(session.ID, claims.UserID, claims.Email)
	if err != nil {
		return nil, internal.NewProviderError("Failed to issue token", err)
	}

	if err := s.sessions.Rotate(ctx, session.ID, session.RefreshTokenHash, hashToken(newRefresh), refreshExp); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("refresh lost a concurrent rotation", "session_id", session.ID)
			return nil, internal.ErrInvalidToken
		}
		s.logger.Error("failed to rotate session", "error", err, "session_id", session.ID)
		return nil, internal.NewProviderError("Failed to refresh session", err)
	}

	return &AuthSession{
		SessionID:    session.ID,
		UserID:       claims.UserID,
		Email:        claims.Email,
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    accessExp,
	}, nil
}

// Logout revokes the session. Revoking twice is not an error.
func (s *Service) Logout(ctx context.Context, session *internal.Session) error {
	if session == nil {
		return internal.ErrMissingToken
	}
	if err := s.sessions.Revoke(ctx, session.ID, s.now()); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return internal.ErrInvalidToken
		}
		s.logger.Error("failed to revoke session", "error", err, "session_id", session.ID)
		return internal.NewProviderError("Failed to sign out", err)
	}

	s.logger.Info("session revoked", "session_id", session.ID, "user_id", session.UserID)
	s.publishRevoked(ctx, session.ID, session.UserID)
	return nil
}

func (s *Service) publishRevoked(ctx context.Context, sessionID, userID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewSessionRevokedEvent(sessionID, userID)); err != nil {
		s.logger.Warn("failed to publish session revoked event", "error", err, "session_id", sessionID)
	}
}

// Authorize verifies an access token and that its session is still live.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*internal.Session, error) {
	if accessToken == "" {
		return nil, internal.ErrMissingToken
	}

	claims, err := s.tokenGenerator.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadLiveSession(ctx, claims.SessionID()); err != nil {
		return nil, err
	}

	return &internal.Session{
		ID:        claims.SessionID(),
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(sessionID, userID, email string) (string, time.Time, error) {
	return j.generate(sessionID, userID, email, TokenTypeAccess, j.AccessTokenSecret, j.AccessTokenTTL)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(sessionID, userID, email string) (string, time.Time, error) {
	return j.generate(sessionID, userID, email, TokenTypeRefresh, j.RefreshTokenSecret, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTTokenGenerator) generate(sessionID, userID, email, tokenType string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		Nonce:     uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

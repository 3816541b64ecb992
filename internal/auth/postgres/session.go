package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	sessionDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/session"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) auth.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) error {
	return r.db.WithContext(ctx).Create(&sessionDatamodel.Session{
		ID:               s.ID,
		UserID:           s.UserID,
		RefreshTokenHash: s.RefreshTokenHash,
		ExpiresAt:        s.ExpiresAt,
		RevokedAt:        s.RevokedAt,
		CreatedAt:        s.CreatedAt,
	}).Error
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*auth.Session, error) {
	var row sessionDatamodel.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrSessionNotFound
		}
		return nil, err
	}
	return &auth.Session{
		ID:               row.ID,
		UserID:           row.UserID,
		RefreshTokenHash: row.RefreshTokenHash,
		ExpiresAt:        row.ExpiresAt,
		RevokedAt:        row.RevokedAt,
		CreatedAt:        row.CreatedAt,
	}, nil
}

// Rotate swaps the refresh token hash of a live session that still holds
// currentHash. Losing a concurrent rotation reports ErrSessionNotFound.
func (r *SessionRepository) Rotate(ctx context.Context, id, currentHash, nextHash string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&sessionDatamodel.Session{}).
		Where("id = ? AND refresh_token_hash = ? AND revoked_at IS NULL", id, currentHash).
		Updates(map[string]interface{}{
			"refresh_token_hash": nextHash,
			"expires_at":         expiresAt,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

// Revoke stamps revoked_at once; later calls keep the first timestamp.
func (r *SessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sessionDatamodel.Session{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return auth.ErrSessionNotFound
	}
	return r.db.WithContext(ctx).Model(&sessionDatamodel.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at": at,
			"updated_at": time.Now(),
		}).Error
}

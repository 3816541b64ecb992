package session

import "time"

type Session struct {
	ID               string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID           string     `gorm:"column:user_id;index;not null"`
	RefreshTokenHash string     `gorm:"column:refresh_token_hash;not null"`
	ExpiresAt        time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt        *time.Time `gorm:"column:revoked_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}

package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionCleaner removes sessions that can no longer be refreshed.
type SessionCleaner struct {
	db *sqlx.DB
}

func NewSessionCleaner(db *sqlx.DB) *SessionCleaner {
	return &SessionCleaner{db: db}
}

// DeleteExpired drops sessions that expired before cutoff and sessions
// revoked before cutoff. It returns the number of deleted rows.
func (c *SessionCleaner) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := c.db.Rebind(`DELETE FROM sessions
		WHERE expires_at < ?
		   OR (revoked_at IS NOT NULL AND revoked_at < ?)`)

	result, err := c.db.ExecContext(ctx, query, cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountLive reports sessions that are neither expired nor revoked at now.
func (c *SessionCleaner) CountLive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	query := c.db.Rebind(`SELECT COUNT(*) FROM sessions WHERE revoked_at IS NULL AND expires_at >= ?`)
	if err := c.db.GetContext(ctx, &n, query, now); err != nil {
		return 0, err
	}
	return n, nil
}

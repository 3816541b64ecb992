package postgres

import (
	"context"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	sessionDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/session"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("SessionCleaner", func() {
	var (
		db      *gorm.DB
		cleaner *SessionCleaner
		ctx     context.Context
		now     time.Time
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&sessionDatamodel.Session{})).To(Succeed())

		repo := NewSessionRepository(db)
		revokedAt := now.Add(-time.Hour)
		for _, s := range []*auth.Session{
			{ID: "live", UserID: "u", RefreshTokenHash: "h", ExpiresAt: now.Add(time.Hour)},
			{ID: "expired", UserID: "u", RefreshTokenHash: "h", ExpiresAt: now.Add(-time.Minute)},
			{ID: "revoked", UserID: "u", RefreshTokenHash: "h", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt},
		} {
			Expect(repo.Create(ctx, s)).To(Succeed())
		}

		cleaner = NewSessionCleaner(sqlx.NewDb(sqlDB, "sqlite3"))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	It("should delete expired and revoked sessions only", func() {
		n, err := cleaner.DeleteExpired(ctx, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))

		live, err := cleaner.CountLive(ctx, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(live).To(Equal(int64(1)))

		var ids []string
		Expect(db.Model(&sessionDatamodel.Session{}).Pluck("id", &ids).Error).To(Succeed())
		Expect(ids).To(ConsistOf("live"))
	})
})

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	userDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/user"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserRepository Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo user.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())
		repo = NewUserRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	It("should assign an id and normalise the email", func() {
		u := &user.User{Email: " Ana@Example.com", PasswordHash: "hash", IsActive: true}
		Expect(repo.Create(ctx, u)).To(Succeed())
		Expect(u.ID).NotTo(BeEmpty())
		Expect(u.Email).To(Equal("ana@example.com"))

		found, err := repo.GetByEmail(ctx, "ANA@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(u.ID))

		byID, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.IsActive).To(BeTrue())
	})

	It("should report a duplicate email as ErrEmailTaken", func() {
		Expect(repo.Create(ctx, &user.User{Email: "ana@example.com", PasswordHash: "hash", IsActive: true})).To(Succeed())
		err := repo.Create(ctx, &user.User{Email: "ana@example.com", PasswordHash: "other", IsActive: true})
		Expect(errors.Is(err, internal.ErrEmailTaken)).To(BeTrue())
	})

	It("should return ErrUserNotFound for unknown accounts", func() {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		Expect(errors.Is(err, user.ErrUserNotFound)).To(BeTrue())

		_, err = repo.GetByID(ctx, "missing")
		Expect(errors.Is(err, user.ErrUserNotFound)).To(BeTrue())
	})
})

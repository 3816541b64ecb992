package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	userDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/user"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row.Email = user.NormalizeEmail(row.Email)

	err := r.db.WithContext(ctx).Create(row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return internal.ErrEmailTaken
		}
		return err
	}
	*u = *user.FromDataModel(row)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", user.NormalizeEmail(email)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

// isUniqueViolation covers gorm's translated error as well as the raw
// postgres (23505) and sqlite messages.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

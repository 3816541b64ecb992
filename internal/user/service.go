package user

import (
	"context"
	"log/slog"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to get user by id", "error", err, "user_id", userID)
		return nil, internal.NewProviderError("Failed to load account", err)
	}
	return u, nil
}

package employee

import (
	"context"
	"log/slog"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/core/events"
)

// Repository is the record store behind the service. Implementations return
// ErrEmployeeNotFound for unknown ids and raw errors for anything else.
type Repository interface {
	List(ctx context.Context) ([]*Employee, error)
	GetByID(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	Replace(ctx context.Context, e *Employee) (*Employee, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// providerError keeps known kinds and wraps everything else as an opaque
// provider failure.
func providerError(message string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewProviderError(message, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish employee event", "event_type", event.EventType(), "error", err)
	}
}

// List returns every employee in store order.
func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, providerError("Failed to load employees", err)
	}
	return employees, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	if id == "" {
		return nil, ErrEmployeeNotFound
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		}
		return nil, providerError("Failed to load employee", err)
	}
	return e, nil
}

// Create validates the draft, stores it and returns the new id.
func (s *Service) Create(ctx context.Context, draft *Draft) (string, error) {
	if err := draft.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return "", err
	}

	e := draft.ToEmployee()
	if e.History == nil {
		e.History = []HistoryEntry{}
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return "", providerError("Failed to register employee", err)
	}

	s.logger.Info("employee created successfully",
		"employee_id", e.ID,
		"department", e.Department)

	s.publish(ctx, events.NewEmployeeCreatedEvent(e.ID))
	return e.ID, nil
}

// Update merges patch into the stored record.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Employee, error) {
	if id == "" {
		return nil, ErrEmployeeNotFound
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		}
		return nil, providerError("Failed to update employee", err)
	}

	s.logger.Info("employee updated successfully",
		"employee_id", id,
		"columns", patch.Columns())

	s.publish(ctx, events.NewEmployeeUpdatedEvent(id))
	return e, nil
}

// Replace overwrites every editable field with the draft. History is
// append-only and is kept from the stored record.
func (s *Service) Replace(ctx context.Context, id string, draft *Draft) (*Employee, error) {
	if id == "" {
		return nil, ErrEmployeeNotFound
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	e := draft.ToEmployee()
	e.ID = id
	updated, err := s.repo.Replace(ctx, e)
	if err != nil {
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			s.logger.Error("failed to replace employee", "error", err, "employee_id", id)
		}
		return nil, providerError("Failed to update employee", err)
	}

	s.logger.Info("employee replaced successfully", "employee_id", id)
	s.publish(ctx, events.NewEmployeeUpdatedEvent(id))
	return updated, nil
}

// Delete removes the record permanently. Unknown ids are NotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmployeeNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		}
		return providerError("Failed to delete employee", err)
	}

	s.logger.Info("employee deleted successfully", "employee_id", id)
	s.publish(ctx, events.NewEmployeeDeletedEvent(id))
	return nil
}

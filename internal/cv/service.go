package cv

import (
	"context"
	"log/slog"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
)

// EmployeeSource is the read side of the record store.
type EmployeeSource interface {
	Get(ctx context.Context, id string) (*employee.Employee, error)
	List(ctx context.Context) ([]*employee.Employee, error)
}

// ArchiveStore keeps generated CVs under cv-files/<id>.pdf.
type ArchiveStore interface {
	ArchiveCV(ctx context.Context, employeeID string, pdf []byte) error
	CVArchiveURL(ctx context.Context, employeeID string) (string, error)
}

// Export is a rendered CV ready for download.
type Export struct {
	Document      *Document
	PDF           []byte
	ArchiveURL    string
	ArchiveNotice string
}

type Service struct {
	employees EmployeeSource
	archive   ArchiveStore
	messages  *i18n.Messages
	logger    *slog.Logger
}

func NewService(employees EmployeeSource, archive ArchiveStore, messages *i18n.Messages, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		archive:   archive,
		messages:  messages,
		logger:    logger,
	}
}

func (s *Service) Messages() *i18n.Messages {
	return s.messages
}

// Preview renders the record handed over by the caller. It never reads the
// store: a missing record renders as placeholders.
func (s *Service) Preview(ctx context.Context, id string, e *employee.Employee) *Document {
	return Render(e, id, s.messages)
}

// Export renders the PDF and looks up the archived copy. A missing archive
// is logged and leaves ArchiveURL empty with ArchiveNotice set.
func (s *Service) Export(ctx context.Context, id string, e *employee.Employee) (*Export, error) {
	doc := Render(e, id, s.messages)
	pdf, err := PDF(doc)
	if err != nil {
		s.logger.Error("failed to generate cv", "error", err, "employee_id", id)
		return nil, err
	}

	out := &Export{Document: doc, PDF: pdf}
	if id != "" && s.archive != nil {
		url, err := s.archive.CVArchiveURL(ctx, id)
		if err != nil {
			s.logger.Warn("archived cv not available", "error", err, "employee_id", id)
			out.ArchiveNotice = s.messages.Get(i18n.NoticeCVArchiveUnavailable)
		} else {
			out.ArchiveURL = url
		}
	}
	return out, nil
}

// Archive renders the stored record and saves it as the archived CV.
func (s *Service) Archive(ctx context.Context, id string) (string, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return "", err
	}

	pdf, err := PDF(Render(e, id, s.messages))
	if err != nil {
		s.logger.Error("failed to generate cv", "error", err, "employee_id", id)
		return "", err
	}
	if err := s.archive.ArchiveCV(ctx, id, pdf); err != nil {
		return "", err
	}

	s.logger.Info("cv archived", "employee_id", id, "size", len(pdf))
	return s.archive.CVArchiveURL(ctx, id)
}

// ArchiveFunc adapts Archive for the background archiver.
func (s *Service) ArchiveFunc() ArchiveFunc {
	return func(ctx context.Context, employeeID string) error {
		_, err := s.Archive(ctx, employeeID)
		return err
	}
}

func (s *Service) ArchiveURL(ctx context.Context, id string) (string, error) {
	return s.archive.CVArchiveURL(ctx, id)
}

// ArchiveAll queues every stored record on the archiver, waiting for queue
// space as needed.
func (s *Service) ArchiveAll(ctx context.Context, archiver *Archiver) (int, error) {
	all, err := s.employees.List(ctx)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, e := range all {
		if err := archiver.EnqueueWait(ctx, e.ID); err != nil {
			return queued, err
		}
		queued++
	}
	return queued, nil
}

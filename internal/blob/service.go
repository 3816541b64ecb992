package blob

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
)

// FilesRoute is where stored blobs are served; download URLs point here.
const FilesRoute = "/api/v1/files/"

type Service struct {
	store   Store
	baseURL string
	logger  *slog.Logger
}

func NewService(store Store, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Upload stores data under key, overwriting any previous object.
func (s *Service) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if err := s.store.Put(ctx, &Object{Key: key, ContentType: contentType, Data: data}); err != nil {
		s.logger.Error("failed to upload file", "error", err, "blob_key", key)
		return internal.NewUploadError("Failed to upload file", err)
	}

	s.logger.Info("file uploaded", "blob_key", key, "size", len(data), "content_type", contentType)
	return nil
}

// ResolveDownloadURL returns the public URL of key, or NotFound.
func (s *Service) ResolveDownloadURL(ctx context.Context, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		s.logger.Error("failed to resolve file", "error", err, "blob_key", key)
		return "", internal.NewProviderError("Failed to resolve file", err)
	}
	if !ok {
		return "", ErrBlobNotFound
	}
	return s.urlFor(key), nil
}

func (s *Service) urlFor(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + FilesRoute + strings.Join(segments, "/")
}

func (s *Service) Open(ctx context.Context, key string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if internal.KindOf(err) == internal.ErrorTypeNotFound {
			return nil, err
		}
		s.logger.Error("failed to read file", "error", err, "blob_key", key)
		return nil, internal.NewProviderError("Failed to read file", err)
	}
	return obj, nil
}

// UploadProfilePicture stores a picture under profilePictures/<file name>
// and returns its download URL.
func (s *Service) UploadProfilePicture(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := ProfilePictureKey(fileName)
	if err := s.Upload(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return s.ResolveDownloadURL(ctx, key)
}

// ArchiveCV stores a generated CV under cv-files/<id>.pdf.
func (s *Service) ArchiveCV(ctx context.Context, employeeID string, pdf []byte) error {
	return s.Upload(ctx, CVArchiveKey(employeeID), pdf, "application/pdf")
}

func (s *Service) CVArchiveURL(ctx context.Context, employeeID string) (string, error) {
	return s.ResolveDownloadURL(ctx, CVArchiveKey(employeeID))
}

package blob

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
)

const (
	ProfilePicturePrefix = "profilePictures/"
	CVArchivePrefix      = "cv-files/"

	maxKeyLength = 512
)

var (
	ErrBlobNotFound   = internal.NewNotFoundError("File not found", internal.ErrCodeBlobNotFound)
	ErrInvalidBlobKey = internal.NewValidationError("Invalid file key", internal.ErrCodeInvalidBlobKey)
)

// Object is one stored file.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}

// Store is a key-addressed binary store. Put overwrites existing keys.
// Get returns ErrBlobNotFound for unknown keys.
type Store interface {
	Put(ctx context.Context, obj *Object) error
	Get(ctx context.Context, key string) (*Object, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ValidateKey accepts slash separated relative keys without dot segments.
func ValidateKey(key string) error {
	if key == "" || len(key) > maxKeyLength {
		return ErrInvalidBlobKey
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return ErrInvalidBlobKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return ErrInvalidBlobKey
		}
	}
	return nil
}

// ProfilePictureKey derives the storage key from the uploaded file name.
// Only the base name is kept so client paths cannot escape the prefix.
func ProfilePictureKey(fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, `\`, "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		name = "picture"
	}
	return ProfilePicturePrefix + name
}

func CVArchiveKey(employeeID string) string {
	return CVArchivePrefix + employeeID + ".pdf"
}

package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"path/filepath"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob"
	"github.com/spf13/afero"
)

// Store keeps blobs as plain files below a root directory.
type Store struct {
	fs afero.Fs
}

// NewStore roots the store at dir inside base. Keys can never leave dir.
func NewStore(base afero.Fs, dir string) blob.Store {
	return &Store{fs: afero.NewBasePathFs(base, dir)}
}

func (s *Store) Put(ctx context.Context, obj *blob.Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.FromSlash(obj.Key)
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, name, obj.Data, 0o644)
}

func (s *Store) Get(ctx context.Context, key string) (*blob.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.FromSlash(key)
	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, blob.ErrBlobNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, blob.ErrBlobNotFound
	}
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return nil, err
	}
	return &blob.Object{
		Key:         key,
		ContentType: contentTypeFor(key, data),
		Data:        data,
		UpdatedAt:   info.ModTime(),
	}, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name := filepath.FromSlash(key)
	ok, err := afero.Exists(s.fs, name)
	if err != nil || !ok {
		return false, err
	}
	isDir, err := afero.IsDir(s.fs, name)
	if err != nil {
		return false, err
	}
	return !isDir, nil
}

func contentTypeFor(key string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/blob"
	blobDatamodel "github.com/Thiagomartinsvieira/document-management-employees/internal/core/datamodel/blob"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRepository implements blob.Store on a database table.
type BlobRepository struct {
	db *gorm.DB
}

func NewBlobRepository(db *gorm.DB) blob.Store {
	return &BlobRepository{db: db}
}

// Put upserts the object on its key.
func (r *BlobRepository) Put(ctx context.Context, obj *blob.Object) error {
	now := time.Now()
	row := &blobDatamodel.Blob{
		Key:         obj.Key,
		ContentType: obj.ContentType,
		Data:        obj.Data,
		Size:        int64(len(obj.Data)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "size", "updated_at"}),
	}).Create(row).Error
}

func (r *BlobRepository) Get(ctx context.Context, key string) (*blob.Object, error) {
	var row blobDatamodel.Blob
	err := r.db.WithContext(ctx).Where("blob_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, blob.ErrBlobNotFound
		}
		return nil, err
	}
	return &blob.Object{
		Key:         row.Key,
		ContentType: row.ContentType,
		Data:        row.Data,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (r *BlobRepository) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&blobDatamodel.Blob{}).Where("blob_key = ?", key).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

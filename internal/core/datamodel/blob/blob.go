package blob

import "time"

type Blob struct {
	Key         string    `gorm:"primaryKey;column:blob_key;type:varchar(512)"`
	ContentType string    `gorm:"column:content_type;not null"`
	Data        []byte    `gorm:"column:data;not null"`
	Size        int64     `gorm:"column:size;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Blob) TableName() string {
	return "blobs"
}

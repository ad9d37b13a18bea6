package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Photo is a hosted image plus the portfolio metadata attached to it.
// Column names follow the original Supabase schema (cloudinary_*), whatever the image host.
type Photo struct {
	ID          uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ImageURL    string            `json:"cloudinary_url" db:"cloudinary_url" gorm:"column:cloudinary_url;type:text;not null"`
	PublicID    string            `json:"cloudinary_public_id" db:"cloudinary_public_id" gorm:"column:cloudinary_public_id;type:text;not null"`
	Title       string            `json:"title" db:"title" gorm:"column:title;type:text;not null;default:''"`
	Description string            `json:"description" db:"description" gorm:"column:description;type:text;not null;default:''"`
	Location    *string           `json:"location,omitempty" db:"location" gorm:"column:location;type:text"`
	DateTaken   *time.Time        `json:"date_taken,omitempty" db:"date_taken" gorm:"column:date_taken;type:timestamptz"`
	FileHash    string            `json:"file_hash" db:"file_hash" gorm:"column:file_hash;type:text;not null;uniqueIndex:idx_photos_file_hash"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at" gorm:"column:created_at;type:timestamptz;not null;default:CURRENT_TIMESTAMP;index:idx_photos_created_at"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" db:"metadata" gorm:"column:metadata;type:jsonb"`
	Tags        []Tag             `json:"tags" gorm:"many2many:photo_tags;joinForeignKey:PhotoID;joinReferences:TagID"`
}

// TagNames returns the names of the photo's tags in stored order.
func (p Photo) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

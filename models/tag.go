package models

import "github.com/google/uuid"

// Tag is a shared label; names are unique as stored and matched case-insensitively.
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name string    `json:"name" db:"name" gorm:"column:name;type:text;not null;uniqueIndex:idx_tags_name"`
}

// PhotoTag is the join row between photos and tags.
type PhotoTag struct {
	PhotoID uuid.UUID `json:"photo_id" db:"photo_id" gorm:"column:photo_id;type:uuid;primaryKey;constraint:OnDelete:CASCADE"`
	TagID   uuid.UUID `json:"tag_id" db:"tag_id" gorm:"column:tag_id;type:uuid;primaryKey;index:idx_photo_tags_tag_id;constraint:OnDelete:CASCADE"`
}

func (PhotoTag) TableName() string {
	return "photo_tags"
}

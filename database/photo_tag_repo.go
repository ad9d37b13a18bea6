package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhotoTagRepo struct {
	db *gorm.DB
}

func NewPhotoTagRepo(db *gorm.DB) *PhotoTagRepo {
	return &PhotoTagRepo{db}
}

// Link associates a tag with a photo; linking twice is a no-op.
func (r *PhotoTagRepo) Link(ctx context.Context, photoID, tagID uuid.UUID) error {
	return linkTag(r.db.WithContext(ctx), photoID, tagID)
}

// unlinkAll removes every association of a photo. Callers pass the
// transaction that also rewrites or deletes the photo row.
func unlinkAll(db *gorm.DB, photoID uuid.UUID) error {
	return db.Where("photo_id = ?", photoID).Delete(&models.PhotoTag{}).Error
}

func linkTag(db *gorm.DB, photoID, tagID uuid.UUID) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PhotoTag{PhotoID: photoID, TagID: tagID}).Error
}

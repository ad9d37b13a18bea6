package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// Upsert returns the tag with the given name, creating it when absent.
func (r *TagRepo) Upsert(ctx context.Context, name string) (*models.Tag, error) {
	return upsertTag(r.db.WithContext(ctx), name)
}

// upsertTag relies on the unique index on tags.name: a concurrent insert of the
// same name turns into a no-op and the winner's row is read back from the primary.
func upsertTag(db *gorm.DB, name string) (*models.Tag, error) {
	candidate := models.Tag{ID: uuid.New(), Name: name}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := db.Clauses(dbresolver.Write).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type PhotoRepo struct {
	db *gorm.DB
}

func NewPhotoRepo(db *gorm.DB) *PhotoRepo {
	return &PhotoRepo{db}
}

// FindAll returns every photo with its tags, newest first.
func (r *PhotoRepo) FindAll(ctx context.Context) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

// FindByID returns a photo by its ID, or nil when no row matches.
func (r *PhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).Preload("Tags").First(&photo, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// FindByHash returns the photo stored with the given content hash, or nil.
// It reads from the primary so a row added earlier in the same batch is seen.
func (r *PhotoRepo) FindByHash(ctx context.Context, hash string) (*models.Photo, error) {
	var photos []models.Photo
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("file_hash = ?", hash).
		Limit(1).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, nil
	}
	return &photos[0], nil
}

// Add inserts a new photo row; tags are linked separately.
func (r *PhotoRepo) Add(ctx context.Context, photo *models.Photo) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Omit("Tags").Create(photo).Error
}

// Update saves title and description, then replaces the photo's tag set.
// Associations are deleted and re-linked inside one transaction.
func (r *PhotoRepo) Update(ctx context.Context, photo *models.Photo, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Photo{}).Where("id = ?", photo.ID).Updates(map[string]interface{}{
			"title":       photo.Title,
			"description": photo.Description,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := unlinkAll(tx, photo.ID); err != nil {
			return err
		}

		for _, name := range tagNames {
			tag, err := upsertTag(tx, name)
			if err != nil {
				return err
			}
			if err := linkTag(tx, photo.ID, tag.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a photo and its tag associations. It reports whether a row was deleted.
func (r *PhotoRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := unlinkAll(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Photo{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

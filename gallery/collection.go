package gallery

import (
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/models"
)

// Collection is the photo set as served to clients: one entry per photo id,
// one entry per tag id on each photo, plus every distinct tag in use.
type Collection struct {
	Photos  []*models.Photo
	AllTags []models.Tag
}

// NewCollection deduplicates photos by id (first occurrence wins) and each
// photo's tags by id. Input photos are copied, never modified.
func NewCollection(photos []*models.Photo) Collection {
	seenPhotos := make(map[uuid.UUID]bool, len(photos))
	seenTags := make(map[uuid.UUID]bool)

	c := Collection{Photos: make([]*models.Photo, 0, len(photos))}
	for _, p := range photos {
		if p == nil || seenPhotos[p.ID] {
			continue
		}
		seenPhotos[p.ID] = true

		cp := *p
		cp.Tags = dedupeTags(p.Tags)
		for _, t := range cp.Tags {
			if !seenTags[t.ID] {
				seenTags[t.ID] = true
				c.AllTags = append(c.AllTags, t)
			}
		}
		c.Photos = append(c.Photos, &cp)
	}
	return c
}

// TagCount returns how many photos carry the tag. A nil tag counts every photo.
func (c Collection) TagCount(tag *models.Tag) int {
	if tag == nil {
		return len(c.Photos)
	}
	n := 0
	for _, p := range c.Photos {
		for _, t := range p.Tags {
			if t.ID == tag.ID {
				n++
				break
			}
		}
	}
	return n
}

func dedupeTags(tags []models.Tag) []models.Tag {
	if len(tags) == 0 {
		return []models.Tag{}
	}
	seen := make(map[uuid.UUID]bool, len(tags))
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

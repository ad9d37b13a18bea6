package upload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/events"
	"github.com/rpupo63/photo-portfolio/gallery"
	"github.com/rpupo63/photo-portfolio/imagehost"
	"github.com/rpupo63/photo-portfolio/metadata"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusHashChecked       Status = "hash-checked"
	StatusDuplicateSkipped  Status = "duplicate-skipped"
	StatusUploadingToHost   Status = "uploading-to-host"
	StatusHostUploaded      Status = "host-uploaded"
	StatusMetadataExtracted Status = "metadata-extracted"
	StatusPersisted         Status = "persisted"
	StatusFailed            Status = "failed"
)

type PhotoStore interface {
	FindByHash(ctx context.Context, hash string) (*models.Photo, error)
	Add(ctx context.Context, photo *models.Photo) error
}

type TagStore interface {
	Upsert(ctx context.Context, name string) (*models.Tag, error)
}

type LinkStore interface {
	Link(ctx context.Context, photoID, tagID uuid.UUID) error
}

type Extractor interface {
	Extract(r io.Reader) (metadata.Metadata, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*string, error)
}

type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Candidate is one file of a batch with the metadata typed in for it.
// Tags is a comma separated list.
type Candidate struct {
	FileName    string
	Data        []byte
	Title       string
	Description string
	Tags        string
}

// Result reports how far a candidate got.
type Result struct {
	FileName    string        `json:"fileName"`
	Status      Status        `json:"status"`
	Hash        string        `json:"hash,omitempty"`
	Photo       *models.Photo `json:"photo,omitempty"`
	DuplicateOf string        `json:"duplicateOf,omitempty"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type Pipeline struct {
	photos    PhotoStore
	tags      TagStore
	links     LinkStore
	host      imagehost.Host
	extractor Extractor
	geocoder  Geocoder
	publisher Publisher
	logger    zerolog.Logger
}

func NewPipeline(photos PhotoStore, tags TagStore, links LinkStore, host imagehost.Host, extractor Extractor, geocoder Geocoder, publisher Publisher) *Pipeline {
	return &Pipeline{
		photos:    photos,
		tags:      tags,
		links:     links,
		host:      host,
		extractor: extractor,
		geocoder:  geocoder,
		publisher: publisher,
		logger:    log.With().Str("component", "upload").Logger(),
	}
}

// Process runs candidates one after another. A failure or duplicate only
// affects its own candidate. Each insert is committed before the next
// candidate's duplicate check, so repeats inside one batch are caught too.
// Subscribers get a collection.changed event when anything was stored.
func (p *Pipeline) Process(ctx context.Context, candidates []Candidate) []Result {
	results := make([]Result, 0, len(candidates))
	stored := 0

	for _, c := range candidates {
		res := p.processOne(ctx, c)
		if res.Photo != nil {
			stored++
		}
		results = append(results, res)
	}

	if stored > 0 {
		p.publisher.Publish(events.TypeCollectionChanged, map[string]int{"added": stored})
	}
	return results
}

func (p *Pipeline) processOne(ctx context.Context, c Candidate) Result {
	res := Result{FileName: c.FileName, Status: StatusPending}
	logger := p.logger.With().Str("file", c.FileName).Logger()

	fail := func(format string, args ...interface{}) Result {
		res.Status = StatusFailed
		res.Error = fmt.Sprintf(format, args...)
		logger.Warn().Str("status", string(res.Status)).Msg(res.Error)
		return res
	}

	if len(c.Data) == 0 {
		return fail("%s is empty", c.FileName)
	}

	sum := sha256.Sum256(c.Data)
	res.Hash = hex.EncodeToString(sum[:])

	mime := mimetype.Detect(c.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return fail("%s is not an image (%s)", c.FileName, mime.String())
	}

	existing, err := p.photos.FindByHash(ctx, res.Hash)
	if err != nil {
		return fail("duplicate check failed for %s: %v", c.FileName, err)
	}
	res.Status = StatusHashChecked
	if existing != nil {
		res.Status = StatusDuplicateSkipped
		res.DuplicateOf = existing.Title
		res.Message = fmt.Sprintf("%s is a duplicate of %q", c.FileName, existing.Title)
		logger.Info().Str("duplicateOf", existing.ID.String()).Msg("skipping duplicate")
		return res
	}

	res.Status = StatusUploadingToHost
	asset, err := p.host.Upload(ctx, c.FileName, mime.String(), c.Data)
	if err != nil {
		return fail("upload of %s failed: %v", c.FileName, err)
	}
	res.Status = StatusHostUploaded

	meta := p.extract(logger, c.Data)
	location := p.locate(ctx, logger, meta)
	res.Status = StatusMetadataExtracted

	tagString := c.Tags
	if strings.TrimSpace(tagString) == "" && len(meta.Keywords) > 0 {
		tagString = strings.Join(meta.Keywords, ", ")
	}

	title := strings.TrimSpace(c.Title)
	if title == "" {
		title = c.FileName
	}

	photo := &models.Photo{
		ImageURL:    asset.URL,
		PublicID:    asset.PublicID,
		Title:       title,
		Description: c.Description,
		Location:    location,
		DateTaken:   meta.CapturedAt,
		FileHash:    res.Hash,
		Metadata:    datatypes.JSONMap(meta.Map()),
	}
	if err := p.photos.Add(ctx, photo); err != nil {
		p.compensate(ctx, logger, asset)
		return fail("saving %s failed: %v", c.FileName, err)
	}
	res.Photo = photo

	var tagErrs []string
	for _, name := range gallery.ParseTagNames(tagString) {
		tag, err := p.tags.Upsert(ctx, name)
		if err != nil {
			tagErrs = append(tagErrs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := p.links.Link(ctx, photo.ID, tag.ID); err != nil {
			tagErrs = append(tagErrs, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		photo.Tags = append(photo.Tags, *tag)
	}
	if len(tagErrs) > 0 {
		return fail("%s was saved but tagging failed: %s", c.FileName, strings.Join(tagErrs, "; "))
	}

	res.Status = StatusPersisted
	logger.Info().Str("photoID", photo.ID.String()).Int("tags", len(photo.Tags)).Msg("photo stored")
	return res
}

// extract never fails the candidate: unreadable EXIF means empty metadata.
func (p *Pipeline) extract(logger zerolog.Logger, data []byte) metadata.Metadata {
	if p.extractor == nil {
		return metadata.Metadata{}
	}
	meta, err := p.extractor.Extract(bytes.NewReader(data))
	if err != nil {
		logger.Debug().Err(err).Msg("no exif metadata")
		return metadata.Metadata{}
	}
	return meta
}

func (p *Pipeline) locate(ctx context.Context, logger zerolog.Logger, meta metadata.Metadata) *string {
	if p.geocoder == nil || !meta.HasGPS() {
		return nil
	}
	place, err := p.geocoder.Reverse(ctx, *meta.Latitude, *meta.Longitude)
	if err != nil {
		logger.Warn().Err(err).Msg("reverse geocoding failed")
		return nil
	}
	return place
}

// compensate removes a hosted image whose record could not be stored. It
// runs even when the request was cancelled.
func (p *Pipeline) compensate(ctx context.Context, logger zerolog.Logger, asset imagehost.Asset) {
	if err := p.host.Delete(context.WithoutCancel(ctx), asset.PublicID); err != nil {
		logger.Error().Err(err).Str("publicID", asset.PublicID).Msg("failed to remove orphaned hosted image")
		return
	}
	logger.Info().Str("publicID", asset.PublicID).Msg("removed hosted image after failed insert")
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rpupo63/photo-portfolio/events"
	"github.com/rpupo63/photo-portfolio/gallery"
	"github.com/rpupo63/photo-portfolio/imagehost"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type photoHandler struct {
	responder Responder
	logger    zerolog.Logger
	photos    PhotoStore
	host      imagehost.Host
	publisher Publisher
}

func newPhotoHandler(photos PhotoStore, host imagehost.Host, publisher Publisher) photoHandler {
	logger := log.With().Str("handlerName", "photoHandler").Logger()

	return photoHandler{
		responder: NewResponder(logger),
		logger:    logger,
		photos:    photos,
		host:      host,
		publisher: publisher,
	}
}

// PhotoListResponse is the filtered, sorted gallery.
type PhotoListResponse struct {
	Photos  []PhotoView      `json:"photos"`
	Total   int              `json:"total"`
	All     int              `json:"all"`
	Filters []gallery.Filter `json:"filters"`
	Sort    gallery.SortKey  `json:"sort"`
	Seed    *uint64          `json:"seed,omitempty"`
}

// NeighborsResponse is the lightbox state around one photo of the current list.
type NeighborsResponse struct {
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Previous PhotoView `json:"previous"`
	Current  PhotoView `json:"current"`
	Next     PhotoView `json:"next"`
	Seed     *uint64   `json:"seed,omitempty"`
}

type listQuery struct {
	filters []gallery.Filter
	sort    gallery.SortKey
	seed    uint64
	hasSeed bool
}

// parseListQuery reads tag, location, sort and seed. Random order without a
// seed gets a fresh one, which the client echoes to keep the order stable.
func parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()

	sortKey, err := gallery.ParseSortKey(q.Get("sort"))
	if err != nil {
		return listQuery{}, err
	}

	lq := listQuery{
		filters: gallery.FiltersFromQuery(q["tag"], q["location"]),
		sort:    sortKey,
	}

	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return listQuery{}, errs.NewInvalidFieldError("seed", "must be an unsigned integer")
		}
		lq.seed, lq.hasSeed = seed, true
	}
	if lq.sort == gallery.SortRandom && !lq.hasSeed {
		lq.seed, lq.hasSeed = gallery.NewSeed(), true
	}
	return lq, nil
}

func (lq listQuery) seedPtr() *uint64 {
	if lq.sort != gallery.SortRandom {
		return nil
	}
	seed := lq.seed
	return &seed
}

// loadList returns the whole collection and the filtered, sorted view of it.
func (h photoHandler) loadList(ctx context.Context, lq listQuery) (gallery.Collection, []*models.Photo, error) {
	photos, err := h.photos.FindAll(ctx)
	if err != nil {
		return gallery.Collection{}, nil, wrapDatabaseError("find", "photos", err)
	}
	collection := gallery.NewCollection(photos)
	list := gallery.Sort(gallery.Apply(collection.Photos, lq.filters), lq.sort, lq.seed)
	return collection, list, nil
}

func parsePhotoID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "photoID")
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError("photoID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("photoID", "must be a UUID")
	}
	return id, nil
}

// getAllPhotos lists the gallery narrowed by ?tag= and ?location= (AND) and ordered by ?sort=
func (h photoHandler) getAllPhotos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lq, err := parseListQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		collection, list, err := h.loadList(r.Context(), lq)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		filters := make([]gallery.Filter, 0, len(lq.filters))
		for _, f := range lq.filters {
			f.Count = len(gallery.Apply(collection.Photos, []gallery.Filter{f}))
			filters = append(filters, f)
		}

		h.responder.WriteJSON(w, PhotoListResponse{
			Photos:  newPhotoViews(list),
			Total:   len(list),
			All:     collection.TagCount(nil),
			Filters: filters,
			Sort:    lq.sort,
			Seed:    lq.seedPtr(),
		})
	}
}

func (h photoHandler) getPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePhotoID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		photo, err := h.photos.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "photo", err))
			return
		}
		if photo == nil {
			h.responder.WriteError(w, errs.NewPhotoNotFoundError(id))
			return
		}

		h.responder.WriteJSON(w, newPhotoView(photo))
	}
}

// getNeighbors opens the lightbox on a photo within the list described by the
// query, optionally applies ?key=ArrowRight|ArrowLeft, and reports its neighbours.
func (h photoHandler) getNeighbors() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePhotoID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		lq, err := parseListQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		_, list, err := h.loadList(r.Context(), lq)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		byID := make(map[uuid.UUID]*models.Photo, len(list))
		ids := make([]uuid.UUID, 0, len(list))
		for _, p := range list {
			byID[p.ID] = p
			ids = append(ids, p.ID)
		}

		cursor := gallery.NewCursor(ids)
		if err := cursor.OpenAt(id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if key := r.URL.Query().Get("key"); key != "" {
			if key == gallery.KeyClose || !cursor.HandleKey(key) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("key", "must be ArrowRight or ArrowLeft"))
				return
			}
		}

		current, _ := cursor.Current()
		prev, next, _ := cursor.Neighbors()
		h.responder.WriteJSON(w, NeighborsResponse{
			Index:    cursor.Index(),
			Total:    cursor.Len(),
			Previous: newPhotoView(byID[prev]),
			Current:  newPhotoView(byID[current]),
			Next:     newPhotoView(byID[next]),
			Seed:     lq.seedPtr(),
		})
	}
}

// UpdatePhotoRequest edits a photo. Nil fields are left unchanged; Tags
// replaces the whole tag set.
type UpdatePhotoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

func (h photoHandler) updatePhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePhotoID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req UpdatePhotoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		photo, err := h.photos.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "photo", err))
			return
		}
		if photo == nil {
			h.responder.WriteError(w, errs.NewPhotoNotFoundError(id))
			return
		}

		if req.Title != nil {
			photo.Title = *req.Title
		}
		if req.Description != nil {
			photo.Description = *req.Description
		}
		tagNames := photo.TagNames()
		if req.Tags != nil {
			tagNames = gallery.ParseTagNames(*req.Tags)
		}

		if err := h.photos.Update(r.Context(), photo, tagNames); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "photo", err))
			return
		}

		updated, err := h.photos.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "photo", err))
			return
		}
		if updated == nil {
			h.responder.WriteError(w, errs.NewPhotoNotFoundError(id))
			return
		}

		h.publisher.Publish(events.TypeCollectionChanged, map[string]string{"updated": id.String()})
		h.responder.WriteJSON(w, newPhotoView(updated))
	}
}

// DeletePhotoRequest accepts both the current and the legacy field names.
type DeletePhotoRequest struct {
	ID                 string `json:"id"`
	PhotoID            string `json:"photoId"`
	PublicID           string `json:"publicId"`
	CloudinaryPublicID string `json:"cloudinary_public_id"`
}

// DeletePhotoResponse reports the outcome of a deletion.
type DeletePhotoResponse struct {
	Success     bool   `json:"success"`
	HostDeleted bool   `json:"hostDeleted"`
	Message     string `json:"message"`
}

func (h photoHandler) deletePhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePhotoID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		resp, err := h.removePhoto(r.Context(), id, r.URL.Query().Get("publicId"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}

func (h photoHandler) deletePhotoFromBody() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeletePhotoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		rawID := req.ID
		if rawID == "" {
			rawID = req.PhotoID
		}
		if rawID == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("photoId"))
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("photoId", "must be a UUID"))
			return
		}

		publicID := req.PublicID
		if publicID == "" {
			publicID = req.CloudinaryPublicID
		}

		resp, err := h.removePhoto(r.Context(), id, publicID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}

// removePhoto deletes the hosted image best-effort, then always deletes the
// record and its tag links. A host failure is logged and reported, not fatal.
// A caller-supplied publicID must match the stored one.
func (h photoHandler) removePhoto(ctx context.Context, id uuid.UUID, publicID string) (DeletePhotoResponse, error) {
	photo, err := h.photos.FindByID(ctx, id)
	if err != nil {
		return DeletePhotoResponse{}, wrapDatabaseError("find", "photo", err)
	}
	if photo == nil {
		return DeletePhotoResponse{}, errs.NewPhotoNotFoundError(id)
	}
	// Only the stored id is ever sent to the host.
	if publicID != "" && publicID != photo.PublicID {
		return DeletePhotoResponse{}, errs.NewInvalidFieldError("publicId", "does not match the photo's hosted image")
	}

	hostDeleted := photo.PublicID != ""
	if hostDeleted {
		if err := h.host.Delete(ctx, photo.PublicID); err != nil {
			hostDeleted = false
			h.logger.Warn().Err(err).Str("photoID", id.String()).Str("publicID", photo.PublicID).Msg("hosted image deletion failed, deleting record anyway")
		}
	}

	deleted, err := h.photos.Delete(ctx, id)
	if err != nil {
		return DeletePhotoResponse{}, wrapDatabaseError("delete", "photo", err)
	}
	if !deleted {
		return DeletePhotoResponse{}, errs.NewPhotoNotFoundError(id)
	}

	h.publisher.Publish(events.TypeCollectionChanged, map[string]string{"deleted": id.String()})

	message := "Photo deleted"
	if !hostDeleted {
		message = "Photo deleted; the hosted image could not be removed"
	}
	return DeletePhotoResponse{Success: true, HostDeleted: hostDeleted, Message: message}, nil
}

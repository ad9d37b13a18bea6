package api

import (
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/gallery"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	photos    PhotoStore
}

func newTagHandler(photos PhotoStore) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		photos:    photos,
	}
}

// TagView is one entry of the tag bar.
type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

type TagListResponse struct {
	Tags []TagView `json:"tags"`
	All  int       `json:"all"`
}

// getAllTags lists the tags carried by at least one photo, ordered by name.
// Tag rows left behind by deleted photos are not listed.
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		photos, err := h.photos.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "photos", err))
			return
		}

		collection := gallery.NewCollection(photos)
		views := make([]TagView, 0, len(collection.AllTags))
		for i := range collection.AllTags {
			t := &collection.AllTags[i]
			views = append(views, TagView{
				ID:    t.ID,
				Name:  t.Name,
				Label: gallery.Capitalize(t.Name),
				Count: collection.TagCount(t),
			})
		}
		sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })

		h.responder.WriteJSON(w, TagListResponse{Tags: views, All: collection.TagCount(nil)})
	}
}

// getSuggestions proposes filters for ?q= given the active ?tag= and ?location= filters.
func (h tagHandler) getSuggestions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		photos, err := h.photos.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "photos", err))
			return
		}

		collection := gallery.NewCollection(photos)
		active := gallery.FiltersFromQuery(q["tag"], q["location"])

		h.responder.WriteJSON(w, map[string]interface{}{
			"suggestions": gallery.Suggest(collection.Photos, q.Get("q"), active),
		})
	}
}

package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type geocodeHandler struct {
	responder Responder
	logger    zerolog.Logger
	geocoder  Geocoder
}

func newGeocodeHandler(geocoder Geocoder) geocodeHandler {
	logger := log.With().Str("handlerName", "geocodeHandler").Logger()

	return geocodeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		geocoder:  geocoder,
	}
}

// reverseGeocode turns ?lat=&lon= into a "City, Country" place name, or null.
func (h geocodeHandler) reverseGeocode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rawLat, rawLon := q.Get("lat"), q.Get("lon")
		if rawLat == "" || rawLon == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("Missing lat or lon parameter"))
			return
		}

		lat, err := strconv.ParseFloat(rawLat, 64)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("lat", "must be a number"))
			return
		}
		lon, err := strconv.ParseFloat(rawLon, 64)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("lon", "must be a number"))
			return
		}

		place, err := h.geocoder.Reverse(r.Context(), lat, lon)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=86400")
		h.responder.WriteJSON(w, map[string]*string{"location": place})
	}
}

package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/photo-portfolio/imagehost"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	host        imagehost.Host
	startupTime time.Time
}

func newHealthHandler(host imagehost.Host, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		host:        host,
		startupTime: startupTime,
	}
}

func (h healthHandler) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]interface{}{
			"status":    "ok",
			"startedAt": h.startupTime.UTC(),
			"uptime":    time.Since(h.startupTime).Round(time.Second).String(),
			"imageHost": h.host.Name(),
		})
	}
}

package api

import (
	"time"

	"github.com/rpupo63/photo-portfolio/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(services Services, settings config.Settings, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:  newHealthHandler(services.Host, startupTime),
		photoHandler:   newPhotoHandler(services.Photos, services.Host, services.Hub),
		tagHandler:     newTagHandler(services.Photos),
		uploadHandler:  newUploadHandler(services.Uploader, settings.Upload.MaxUploadBytes, settings.Server.WriteTimeout),
		authHandler:    newAuthHandler(services.Auth),
		geocodeHandler: newGeocodeHandler(services.Geocoder),
	}
}

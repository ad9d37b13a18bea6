package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/auth"
	"github.com/rpupo63/photo-portfolio/events"
	"github.com/rpupo63/photo-portfolio/imagehost"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/rpupo63/photo-portfolio/upload"
)

type PhotoStore interface {
	FindAll(ctx context.Context) ([]*models.Photo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	Update(ctx context.Context, photo *models.Photo, tagNames []string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type Uploader interface {
	Process(ctx context.Context, candidates []upload.Candidate) []upload.Result
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (auth.Session, error)
	Verify(token string) (*auth.Claims, error)
	SignOut(claims *auth.Claims)
	CurrentUser(ctx context.Context, claims *auth.Claims) (*models.User, error)
}

type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*string, error)
}

type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Services are the collaborators the HTTP layer is built from.
type Services struct {
	Photos   PhotoStore
	Uploader Uploader
	Auth     Authenticator
	Host     imagehost.Host
	Geocoder Geocoder
	Hub      *events.Hub
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler  healthHandler
	photoHandler   photoHandler
	tagHandler     tagHandler
	uploadHandler  uploadHandler
	authHandler    authHandler
	geocodeHandler geocodeHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// PhotoView is a photo plus delivery URLs sized for the grid and the lightbox.
type PhotoView struct {
	*models.Photo
	ThumbURL string `json:"thumb_url"`
	FullURL  string `json:"full_url"`
}

func newPhotoView(p *models.Photo) PhotoView {
	return PhotoView{
		Photo:    p,
		ThumbURL: imagehost.ThumbURL(p.ImageURL),
		FullURL:  imagehost.FullURL(p.ImageURL),
	}
}

func newPhotoViews(photos []*models.Photo) []PhotoView {
	views := make([]PhotoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, newPhotoView(p))
	}
	return views
}

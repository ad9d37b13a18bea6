package imagehost

import (
	"context"
	"fmt"

	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
)

// Asset identifies an image stored on the host.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Host stores image binaries and deletes them by public id.
type Host interface {
	Name() string
	Upload(ctx context.Context, name, contentType string, data []byte) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// New builds the backend named by settings.Provider.
func New(ctx context.Context, settings config.ImageHostSettings) (Host, error) {
	switch settings.Provider {
	case "", "cloudinary":
		return NewCloudinary(settings)
	case "cloudflare":
		return NewCloudflare(settings)
	case "s3":
		return NewS3(ctx, settings)
	default:
		return nil, errs.NewConfigError("IMAGE_HOST", fmt.Errorf("unknown provider %q", settings.Provider))
	}
}

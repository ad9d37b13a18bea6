package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
)

// cloudflareImages is the slice of the cloudflare API used here.
type cloudflareImages interface {
	UploadImage(ctx context.Context, rc *cloudflare.ResourceContainer, params cloudflare.UploadImageParams) (cloudflare.Image, error)
	DeleteImage(ctx context.Context, rc *cloudflare.ResourceContainer, imageID string) error
}

// Cloudflare stores images in Cloudflare Images. The public id is the image id.
type Cloudflare struct {
	api     cloudflareImages
	account *cloudflare.ResourceContainer
}

func NewCloudflare(settings config.ImageHostSettings) (*Cloudflare, error) {
	api, err := cloudflare.NewWithAPIToken(settings.CloudflareAPIToken)
	if err != nil {
		return nil, fmt.Errorf("create cloudflare client: %w", err)
	}
	return &Cloudflare{
		api:     api,
		account: cloudflare.AccountIdentifier(settings.CloudflareAccountID),
	}, nil
}

func (c *Cloudflare) Name() string { return "cloudflare" }

func (c *Cloudflare) Upload(ctx context.Context, name, contentType string, data []byte) (Asset, error) {
	img, err := c.api.UploadImage(ctx, c.account, cloudflare.UploadImageParams{
		File: io.NopCloser(bytes.NewReader(data)),
		Name: name,
		Metadata: map[string]interface{}{
			"content_type": contentType,
		},
	})
	if err != nil {
		return Asset{}, c.wrap(err)
	}
	if len(img.Variants) == 0 {
		return Asset{}, errs.NewUpstreamError(c.Name(), 200, "image stored without delivery variants")
	}
	return Asset{URL: publicVariant(img.Variants), PublicID: img.ID}, nil
}

func (c *Cloudflare) Delete(ctx context.Context, publicID string) error {
	if err := c.api.DeleteImage(ctx, c.account, publicID); err != nil {
		return c.wrap(err)
	}
	return nil
}

func (c *Cloudflare) wrap(err error) error {
	var (
		reqErr     *cloudflare.RequestError
		limitErr   *cloudflare.RatelimitError
		serviceErr *cloudflare.ServiceError
	)
	switch {
	case errors.As(err, &reqErr):
		return errs.NewUpstreamError(c.Name(), 400, strings.Join(reqErr.ErrorMessages(), "; "))
	case errors.As(err, &limitErr):
		return errs.NewUpstreamError(c.Name(), 429, strings.Join(limitErr.ErrorMessages(), "; "))
	case errors.As(err, &serviceErr):
		return errs.NewUpstreamError(c.Name(), 500, strings.Join(serviceErr.ErrorMessages(), "; "))
	}
	return errs.NewServiceUnreachableError(c.Name(), err)
}

// publicVariant prefers the "public" variant, the Cloudflare default.
func publicVariant(variants []string) string {
	for _, v := range variants {
		if strings.HasSuffix(v, "/public") {
			return v
		}
	}
	return variants[0]
}

package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
)

// cloudinaryUploader is the part of the Cloudinary upload API we call.
type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Cloudinary uploads through the configured preset and deletes with destroy.
type Cloudinary struct {
	api          cloudinaryUploader
	uploadPreset string
}

func NewCloudinary(settings config.ImageHostSettings) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(settings.CloudinaryCloudName, settings.CloudinaryAPIKey, settings.CloudinaryAPISecret)
	if err != nil {
		return nil, errs.NewConfigError("CLOUDINARY_CLOUD_NAME", err)
	}
	if settings.CloudinaryBaseURL != "" {
		cld.Config.API.UploadPrefix = settings.CloudinaryBaseURL
	}
	return &Cloudinary{api: &cld.Upload, uploadPreset: settings.CloudinaryUploadPreset}, nil
}

func (c *Cloudinary) Name() string { return "cloudinary" }

// Upload sends the original bytes; no incoming transformation is requested so
// the host keeps full quality and derives sizes on delivery.
func (c *Cloudinary) Upload(ctx context.Context, name, contentType string, data []byte) (Asset, error) {
	res, err := c.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		UploadPreset: c.uploadPreset,
	})
	if err != nil {
		return Asset{}, errs.NewServiceUnreachableError(c.Name(), fmt.Errorf("upload %s: %w", name, err))
	}
	if res.Error.Message != "" {
		return Asset{}, errs.NewUpstreamError(c.Name(), http.StatusBadRequest, res.Error.Message)
	}
	if res.SecureURL == "" || res.PublicID == "" {
		return Asset{}, errs.NewUpstreamError(c.Name(), http.StatusOK, "response without secure_url or public_id")
	}

	return Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete destroys the image. An image that is already gone counts as deleted.
func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errs.NewServiceUnreachableError(c.Name(), err)
	}
	if res.Error.Message != "" {
		return errs.NewUpstreamError(c.Name(), http.StatusBadRequest, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return errs.NewUpstreamError(c.Name(), http.StatusOK, "destroy result: "+res.Result)
	}
	return nil
}

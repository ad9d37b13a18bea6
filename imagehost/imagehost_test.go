package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudflare/cloudflare-go"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformURL(t *testing.T) {
	url := "https://res.cloudinary.com/demo/image/upload/v1700000000/portfolio/abc.jpg"

	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_600,h_600,c_fill,f_auto,q_auto/v1700000000/portfolio/abc.jpg",
		ThumbURL(url))
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_2000,f_auto,q_auto/v1700000000/portfolio/abc.jpg",
		FullURL(url))
	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/w_300,q_80/v1700000000/portfolio/abc.jpg",
		TransformURL(url, Transform{Width: 300, Quality: "80"}))

	assert.Equal(t, "https://cdn.example.com/a.jpg", ThumbURL("https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", FullURL(""))
	assert.Equal(t, url, TransformURL(url, Transform{}))
}

type fakeCloudinary struct {
	uploaded  uploader.UploadParams
	data      []byte
	destroyed string
	upload    *uploader.UploadResult
	destroy   *uploader.DestroyResult
	err       error
}

func (f *fakeCloudinary) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploaded = params
	f.data, _ = io.ReadAll(file.(io.Reader))
	return f.upload, f.err
}

func (f *fakeCloudinary) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = params.PublicID
	return f.destroy, f.err
}

func TestCloudinaryUpload(t *testing.T) {
	fake := &fakeCloudinary{upload: &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/p.jpg",
		PublicID:  "p",
	}}
	host := &Cloudinary{api: fake, uploadPreset: "portfolio_preset"}

	asset, err := host.Upload(context.Background(), "beach.jpg", "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, Asset{URL: "https://res.cloudinary.com/demo/image/upload/v1/p.jpg", PublicID: "p"}, asset)
	assert.Equal(t, "portfolio_preset", fake.uploaded.UploadPreset)
	assert.Equal(t, "jpegbytes", string(fake.data))
}

func TestCloudinaryUpload_Rejected(t *testing.T) {
	fake := &fakeCloudinary{upload: &uploader.UploadResult{Error: api.ErrorResp{Message: "Upload preset not found"}}}
	host := &Cloudinary{api: fake}

	_, err := host.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	require.Error(t, err)
	assert.True(t, errs.IsUpstreamError(err))
	assert.Contains(t, err.(*errs.ApiErr).Details, "Upload preset not found")

	fake.upload = &uploader.UploadResult{}
	_, err = host.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	assert.True(t, errs.IsUpstreamError(err))

	fake.err = errors.New("connection reset")
	_, err = host.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	assert.True(t, errs.IsServiceUnreachableError(err))
}

func TestCloudinaryDelete_Results(t *testing.T) {
	fake := &fakeCloudinary{destroy: &uploader.DestroyResult{Result: "ok"}}
	host := &Cloudinary{api: fake}

	require.NoError(t, host.Delete(context.Background(), "p"))
	assert.Equal(t, "p", fake.destroyed)

	fake.destroy = &uploader.DestroyResult{Result: "not found"}
	assert.NoError(t, host.Delete(context.Background(), "gone"))

	fake.destroy = &uploader.DestroyResult{Result: "error"}
	assert.True(t, errs.IsUpstreamError(host.Delete(context.Background(), "p")))

	fake.destroy = &uploader.DestroyResult{Error: api.ErrorResp{Message: "Invalid Signature"}}
	assert.True(t, errs.IsUpstreamError(host.Delete(context.Background(), "p")))
}

func TestCloudinary_SDKTalksToConfiguredEndpoint(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			t.Errorf("parse form: %v", err)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/upload"):
			assert.Equal(t, "portfolio_preset", r.FormValue("upload_preset"))
			w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/p.jpg","public_id":"p"}`))
		case strings.HasSuffix(r.URL.Path, "/destroy"):
			assert.Equal(t, "p", r.FormValue("public_id"))
			w.Write([]byte(`{"result":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	host, err := NewCloudinary(config.ImageHostSettings{
		CloudinaryCloudName:    "demo",
		CloudinaryUploadPreset: "portfolio_preset",
		CloudinaryAPIKey:       "key",
		CloudinaryAPISecret:    "secret",
		CloudinaryBaseURL:      srv.URL,
	})
	require.NoError(t, err)

	asset, err := host.Upload(context.Background(), "beach.jpg", "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, "p", asset.PublicID)
	require.NoError(t, host.Delete(context.Background(), "p"))

	require.Len(t, paths, 2)
	for _, p := range paths {
		assert.True(t, strings.HasPrefix(p, "/v1_1/demo/"), p)
	}
}

type fakeCloudflare struct {
	uploaded  cloudflare.UploadImageParams
	deleted   string
	uploadErr error
}

func (f *fakeCloudflare) UploadImage(_ context.Context, _ *cloudflare.ResourceContainer, params cloudflare.UploadImageParams) (cloudflare.Image, error) {
	f.uploaded = params
	if f.uploadErr != nil {
		return cloudflare.Image{}, f.uploadErr
	}
	return cloudflare.Image{
		ID:       "cf-1",
		Variants: []string{"https://imagedelivery.net/h/cf-1/thumb", "https://imagedelivery.net/h/cf-1/public"},
	}, nil
}

func (f *fakeCloudflare) DeleteImage(_ context.Context, _ *cloudflare.ResourceContainer, id string) error {
	f.deleted = id
	return nil
}

func TestCloudflare(t *testing.T) {
	fake := &fakeCloudflare{}
	host := &Cloudflare{api: fake, account: cloudflare.AccountIdentifier("acc")}

	asset, err := host.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, Asset{URL: "https://imagedelivery.net/h/cf-1/public", PublicID: "cf-1"}, asset)
	assert.Equal(t, "a.jpg", fake.uploaded.Name)

	require.NoError(t, host.Delete(context.Background(), "cf-1"))
	assert.Equal(t, "cf-1", fake.deleted)

	fake.uploadErr = errors.New("connection reset")
	_, err = host.Upload(context.Background(), "a.jpg", "image/jpeg", []byte("x"))
	assert.True(t, errs.IsServiceUnreachableError(err))
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	delKey string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3(t *testing.T) {
	fake := &fakeS3{}
	host := newS3WithClient(fake, config.ImageHostSettings{S3Bucket: "bucket", S3Prefix: "photos/", AWSRegion: "eu-west-1"})

	asset, err := host.Upload(context.Background(), "Beach.JPG", "image/jpeg", []byte("x"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.PublicID, "photos/"))
	assert.True(t, strings.HasSuffix(asset.PublicID, ".jpg"))
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/"+asset.PublicID, asset.URL)
	assert.Equal(t, "image/jpeg", aws.ToString(fake.put.ContentType))
	assert.Equal(t, "bucket", aws.ToString(fake.put.Bucket))

	require.NoError(t, host.Delete(context.Background(), asset.PublicID))
	assert.Equal(t, asset.PublicID, fake.delKey)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.ImageHostSettings{Provider: "ftp"})
	assert.ErrorIs(t, err, errs.ErrConfigInvalid)

	host, err := New(context.Background(), config.ImageHostSettings{
		Provider:               "cloudinary",
		CloudinaryCloudName:    "demo",
		CloudinaryUploadPreset: "portfolio_preset",
		CloudinaryAPIKey:       "key",
		CloudinaryAPISecret:    "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "cloudinary", host.Name())
}

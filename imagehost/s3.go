package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/errs"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores images as objects; the public id is the object key.
type S3 struct {
	client        s3API
	bucket        string
	prefix        string
	publicBaseURL string
}

func NewS3(ctx context.Context, settings config.ImageHostSettings) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3WithClient(s3.NewFromConfig(awsCfg), settings), nil
}

func newS3WithClient(client s3API, settings config.ImageHostSettings) *S3 {
	base := strings.TrimRight(settings.S3PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", settings.S3Bucket, settings.AWSRegion)
	}
	return &S3{
		client:        client,
		bucket:        settings.S3Bucket,
		prefix:        settings.S3Prefix,
		publicBaseURL: base,
	}
}

func (s *S3) Name() string { return "s3" }

func (s *S3) Upload(ctx context.Context, name, contentType string, data []byte) (Asset, error) {
	key := s.prefix + uuid.NewString() + strings.ToLower(path.Ext(name))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Asset{}, errs.NewServiceUnreachableError(s.Name(), err)
	}
	return Asset{URL: s.publicBaseURL + "/" + key, PublicID: key}, nil
}

func (s *S3) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return errs.NewServiceUnreachableError(s.Name(), err)
	}
	return nil
}

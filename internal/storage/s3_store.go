package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type presigner interface {
	GetObjectRequest(input *s3.GetObjectInput) (*request.Request, *s3.GetObjectOutput)
}

// S3Store keeps objects in a single S3 bucket and hands out presigned GET URLs.
type S3Store struct {
	bucket     string
	uploader   uploader
	svc        presigner
	presignTTL time.Duration
}

// NewS3Store creates a store for bucket in region.
func NewS3Store(region, bucket string, presignTTL time.Duration) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		bucket:     bucket,
		uploader:   s3manager.NewUploader(sess),
		svc:        s3.New(sess),
		presignTTL: presignTTL,
	}, nil
}

// Upload writes body to path, replacing any existing object.
func (s *S3Store) Upload(ctx context.Context, path, contentType string, body io.Reader) error {
	if path == "" {
		return errors.New("empty object path")
	}
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

// URL returns a time-limited GET URL for path.
func (s *S3Store) URL(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("empty object path")
	}
	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	req.SetContext(ctx)
	url, err := req.Presign(s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", path, err)
	}
	return url, nil
}

package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrInvalidImage marks input that is not a base64 image data URI.
var ErrInvalidImage = errors.New("invalid base64 image")

// ObjectPutter is the slice of the S3 client the uploader uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageUploader stores base64 data-URI images in S3 and returns their
// CloudFront URL.
type ImageUploader struct {
	client ObjectPutter
	bucket string
	cdnURL string
	now    func() time.Time
}

func NewImageUploader(client ObjectPutter, bucket, cdnURL string) *ImageUploader {
	return &ImageUploader{client: client, bucket: bucket, cdnURL: strings.TrimRight(cdnURL, "/"), now: time.Now}
}

// NewS3ImageUploader builds the uploader from the default AWS credential
// chain.
func NewS3ImageUploader(ctx context.Context, region, bucket, cdnURL string) (*ImageUploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return NewImageUploader(s3.NewFromConfig(cfg), bucket, cdnURL), nil
}

// DecodeDataURI splits "data:<mime>;base64,<data>" into content type,
// file extension and bytes.
func DecodeDataURI(base64Data string) (contentType, ext string, data []byte, err error) {
	meta, payload, ok := strings.Cut(base64Data, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", "", nil, ErrInvalidImage
	}
	contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}

	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return contentType, ext, data, nil
}

// Upload puts the image under prefix and returns its public URL.
func (u *ImageUploader) Upload(ctx context.Context, base64Data, prefix string) (string, error) {
	contentType, ext, data, err := DecodeDataURI(base64Data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s-%d%s", prefix, u.now().UnixNano(), ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.cdnURL, key), nil
}

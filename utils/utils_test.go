package utils

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

const pixel = "data:image/png;base64,aGVsbG8="

func TestImageUploader_Upload(t *testing.T) {
	put := &fakePutter{}
	u := NewImageUploader(put, "bucket", "https://cdn.example.com/")
	u.now = func() time.Time { return time.Unix(0, 42) }

	url, err := u.Upload(context.Background(), pixel, "meals/u1/m1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/meals/u1/m1-42.png", url)
	assert.Equal(t, "bucket", aws.ToString(put.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.in.ContentType))
	assert.Equal(t, []byte("hello"), put.body)
}

func TestImageUploader_UploadError(t *testing.T) {
	u := NewImageUploader(&fakePutter{err: errors.New("denied")}, "b", "https://cdn")
	_, err := u.Upload(context.Background(), pixel, "x")
	assert.ErrorContains(t, err, "failed to upload to S3")
}

func TestDecodeDataURI(t *testing.T) {
	ct, ext, _, err := DecodeDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, ".jpg", ext)

	for _, bad := range []string{"", "aGVsbG8=", "data:text/plain;base64,aGVsbG8=", "data:image/png;base64,%%%"} {
		_, _, _, err := DecodeDataURI(bad)
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT("u1", "a@example.com", "s3cret", time.Hour)
	require.NoError(t, err)

	uid, email, err := ParseUserID(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
	assert.Equal(t, "a@example.com", email)

	_, _, err = ParseUserID(tok, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT("u1", "", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, _, err = ParseUserID(expired, "s3cret")
	assert.Error(t, err)
}

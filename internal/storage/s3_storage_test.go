package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/ikkim/bookshelf-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(baseURL string) *S3Storage {
	return NewS3Storage(context.Background(), config.S3Config{
		Region:          "eu-central-1",
		Bucket:          "bookshelf-covers",
		AccessKeyID:     "AKIATESTKEY",
		SecretAccessKey: "test-secret",
		BaseURL:         baseURL,
	})
}

func TestS3Storage_PresignCoverUpload(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignCoverUpload(context.Background(), "Dune.PNG", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "covers/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Contains(t, resp.UploadURL, "bookshelf-covers")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "https://bookshelf-covers.s3.eu-central-1.amazonaws.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_PresignCoverUpload_BaseURL(t *testing.T) {
	s := newTestStorage("https://cdn.example.com/")

	resp, err := s.PresignCoverUpload(context.Background(), "cover.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_PresignCoverUpload_RejectsNonImage(t *testing.T) {
	s := newTestStorage("")

	resp, err := s.PresignCoverUpload(context.Background(), "notes.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
	assert.Nil(t, resp)
}

func TestValidateContentType(t *testing.T) {
	assert.NoError(t, ValidateContentType("image/webp", AllowedCoverTypes))
	assert.ErrorIs(t, ValidateContentType("text/html", AllowedCoverTypes), ErrUnsupportedContentType)
}

package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"gymhero/training-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
	assert.Equal(t, "https://minio:9000", endpointURL("https://minio:9000", false))
}

// Presigning is computed locally, so no server is needed.
func TestS3Storage_Presign(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Enabled:         true,
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "media",
		PresignExpiry:   5 * time.Minute,
	}, zerolog.Nop())
	require.NoError(t, err)

	put, err := fs.GeneratePresignedUploadURL(context.Background(), "exercises/1/abc", "video/mp4", 0)
	require.NoError(t, err)
	u, err := url.Parse(put)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/media/exercises/1/abc"), u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	get, err := fs.GeneratePresignedDownloadURL(context.Background(), "exercises/1/abc", time.Minute)
	require.NoError(t, err)
	u, err = url.Parse(get)
	require.NoError(t, err)
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
}

func TestDisabled(t *testing.T) {
	var fs FileStorage = Disabled{}
	_, err := fs.GeneratePresignedUploadURL(context.Background(), "k", "image/png", 0)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = fs.GeneratePresignedDownloadURL(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, fs.DeleteObject(context.Background(), "k"), ErrDisabled)
}

package storage

import (
	"context"
	"io"
	"strings"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// PublicBaseURL is the externally reachable prefix under which uploaded
	// objects are served. Stored entity URLs are built from it.
	PublicBaseURL string
}

// StorageService defines the public interface for the file storage service.
// Avatars and post images are uploaded server-side from multipart forms.
type StorageService interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the externally reachable URL for an object key.
	PublicURL(key string) string

	// KeyFromURL maps a previously returned public URL back to its object
	// key, or "" if the URL is not under this service's public prefix.
	KeyFromURL(url string) string
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}

// keyFromURL is shared by implementations: strips the public prefix.
func keyFromURL(publicBaseURL, url string) string {
	prefix := strings.TrimRight(publicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

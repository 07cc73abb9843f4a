package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"workout_scheduler/internal/config"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves a file from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, path string) error

	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, path string) (string, error)

	// GetSignedURL returns a temporary signed URL for private files
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	GetSize(ctx context.Context, path string) (int64, error)
}

// Config holds storage configuration
type Config struct {
	Type          string // local, s3, cloudflare_r2, cloudinary
	BasePath      string // local
	BaseURL       string // public URL base
	Bucket        string // s3/r2
	Region        string // s3
	AccessKey     string
	SecretKey     string
	Endpoint      string // r2 or custom s3
	UseSSL        bool
	PublicRead    bool
	CloudinaryURL string
	Folder        string // cloudinary
}

// ConfigFromApp переносит секцию storage из конфигурации приложения
func ConfigFromApp(cfg *config.Config) Config {
	s := cfg.Storage
	return Config{
		Type:          s.Type,
		BasePath:      s.BasePath,
		BaseURL:       s.BaseURL,
		Bucket:        s.Bucket,
		Region:        s.Region,
		AccessKey:     s.AccessKey,
		SecretKey:     s.SecretKey,
		Endpoint:      s.Endpoint,
		UseSSL:        s.UseSSL,
		PublicRead:    s.PublicRead,
		CloudinaryURL: s.CloudinaryURL,
		Folder:        s.Folder,
	}
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	case "cloudinary":
		return NewCloudinaryStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

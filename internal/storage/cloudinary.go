package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage хранит картинки в Cloudinary; путь без расширения становится public id
type CloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	folder     string
	httpClient *http.Client
}

// NewCloudinaryStorage - CloudinaryURL из конфига, иначе CLOUDINARY_URL из окружения
func NewCloudinaryStorage(cfg Config) (*CloudinaryStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryStorage{
		cld:        cld,
		folder:     strings.Trim(cfg.Folder, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *CloudinaryStorage) publicID(p string) string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	if s.folder == "" {
		return p
	}
	return s.folder + "/" + p
}

func (s *CloudinaryStorage) Save(ctx context.Context, p string, reader io.Reader, contentType string) error {
	resp, err := s.cld.Upload.Upload(ctx, reader, uploader.UploadParams{
		PublicID:       s.publicID(p),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}
	return nil
}

func (s *CloudinaryStorage) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	url, err := s.GetURL(ctx, p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, p string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   s.publicID(p),
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}
	return nil
}

func (s *CloudinaryStorage) Exists(ctx context.Context, p string) (bool, error) {
	resp, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: s.publicID(p)})
	if err != nil {
		return false, fmt.Errorf("failed to query cloudinary asset: %w", err)
	}
	return resp.Error.Message == "" && resp.PublicID != "", nil
}

func (s *CloudinaryStorage) GetURL(ctx context.Context, p string) (string, error) {
	img, err := s.cld.Image(s.publicID(p))
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary url: %w", err)
	}
	return img.String()
}

// GetSignedURL - картинки публичные, подпись не нужна
func (s *CloudinaryStorage) GetSignedURL(ctx context.Context, p string, expiry time.Duration) (string, error) {
	return s.GetURL(ctx, p)
}

func (s *CloudinaryStorage) GetSize(ctx context.Context, p string) (int64, error) {
	resp, err := s.cld.Admin.Asset(ctx, admin.AssetParams{PublicID: s.publicID(p)})
	if err != nil {
		return 0, fmt.Errorf("failed to query cloudinary asset: %w", err)
	}
	if resp.Error.Message != "" {
		return 0, fmt.Errorf("cloudinary asset lookup failed: %s", resp.Error.Message)
	}
	return int64(resp.Bytes), nil
}

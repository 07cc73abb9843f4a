package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"workout_scheduler/internal/imageprocessor"
	"workout_scheduler/internal/logger"
	"workout_scheduler/internal/models"
	"workout_scheduler/internal/storage"
	"workout_scheduler/pkg/apperrors"
)

// ImageConfig - ограничения на загружаемые картинки упражнений
type ImageConfig struct {
	MaxSize      int64    // байты
	AllowedTypes []string // MIME-типы
	MaxDimension int      // длинная сторона после обработки
}

type ImageService interface {
	// StoreExerciseImages проверяет, ужимает и сохраняет файлы; при ошибке уже сохраненные удаляются
	StoreExerciseImages(ctx context.Context, exerciseID string, files []*multipart.FileHeader) ([]models.ExerciseImage, error)
	// DeleteStoredImages удаляет файлы из хранилища, ошибки только логируются
	DeleteStoredImages(ctx context.Context, images []models.ExerciseImage)
}

type imageService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    ImageConfig
}

func NewImageService(store storage.Storage, processor *imageprocessor.Processor, config ImageConfig) ImageService {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxDimension <= 0 {
		config.MaxDimension = imageprocessor.SizeLarge.Width
	}
	return &imageService{
		storage:   store,
		processor: processor,
		config:    config,
	}
}

func (s *imageService) StoreExerciseImages(ctx context.Context, exerciseID string, files []*multipart.FileHeader) ([]models.ExerciseImage, error) {
	stored := make([]models.ExerciseImage, 0, len(files))
	for _, file := range files {
		img, err := s.storeOne(ctx, exerciseID, file)
		if err != nil {
			s.DeleteStoredImages(ctx, stored)
			return nil, err
		}
		stored = append(stored, *img)
	}
	return stored, nil
}

func (s *imageService) storeOne(ctx context.Context, exerciseID string, file *multipart.FileHeader) (*models.ExerciseImage, error) {
	if file.Size > s.config.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.config.MaxSize+1))
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to read uploaded file: %w", err))
	}
	if int64(len(data)) > s.config.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	// Заголовку клиента не доверяем, тип определяется по содержимому
	if !s.isAllowedType(http.DetectContentType(data)) {
		return nil, apperrors.ErrInvalidFileType
	}

	bounds := imageprocessor.ImageSize{Name: "exercise", Width: s.config.MaxDimension, Height: s.config.MaxDimension}
	result, err := s.processor.Fit(bytes.NewReader(data), bounds)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType
	}

	key := exerciseImageKey(exerciseID, file.Filename, result.Ext)
	if err := s.storage.Save(ctx, key, result.Reader(), result.ContentType); err != nil {
		return nil, apperrors.ErrExternalService(err, "storage", "Failed to store image")
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, apperrors.ErrExternalService(err, "storage", "Failed to resolve image URL")
	}

	return &models.ExerciseImage{
		ExerciseID: exerciseID,
		URL:        url,
		StorageKey: key,
	}, nil
}

func (s *imageService) isAllowedType(mimeType string) bool {
	if len(s.config.AllowedTypes) == 0 {
		return strings.HasPrefix(mimeType, "image/")
	}
	for _, allowed := range s.config.AllowedTypes {
		if strings.EqualFold(mimeType, allowed) {
			return true
		}
	}
	return false
}

func (s *imageService) DeleteStoredImages(ctx context.Context, images []models.ExerciseImage) {
	for _, img := range images {
		if img.StorageKey == "" {
			continue
		}
		if err := s.storage.Delete(ctx, img.StorageKey); err != nil {
			logger.CtxWithError(ctx, "Failed to delete stored image", err, "key", img.StorageKey)
		}
	}
}

// exerciseImageKey - exercises/<exerciseID>/<uuid>_<имя><ext>
func exerciseImageKey(exerciseID, filename, ext string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("exercises/%s/%s_%s%s", exerciseID, uuid.NewString(), base, ext)
}

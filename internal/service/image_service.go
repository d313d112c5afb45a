package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventshare/eventshare-api/internal/dto"
	appErrors "github.com/eventshare/eventshare-api/pkg/errors"
	"github.com/eventshare/eventshare-api/pkg/storage"
)

type imageFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// ImageServiceConfig holds image validation parameters.
type ImageServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// ImageDownload bundles an opened image with the metadata needed to serve it.
type ImageDownload struct {
	File    *os.File
	Name    string
	ModTime time.Time
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService stores and serves event images.
type ImageService struct {
	storage imageFileStorage
	cfg     ImageServiceConfig
	mimeSet map[string]struct{}
	logger  *zap.Logger
}

// NewImageService constructs the service.
func NewImageService(store imageFileStorage, cfg ImageServiceConfig, logger *zap.Logger) *ImageService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &ImageService{storage: store, cfg: cfg, mimeSet: mimeSet, logger: logger}
}

// Store validates the upload and writes it under a generated name, returning the stored path.
func (s *ImageService) Store(ctx context.Context, upload dto.ImageUpload) (string, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "image is empty")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("image exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := s.detectMime(upload)
	if err != nil {
		return "", err
	}
	if _, allowed := s.mimeSet[mimeType]; !allowed {
		return "", appErrors.Clone(appErrors.ErrValidation, "image type not allowed")
	}

	ext, ok := imageExtensions[mimeType]
	if !ok {
		ext = strings.ToLower(filepath.Ext(upload.Filename))
	}
	filename := fmt.Sprintf("events/%s%s", uuid.NewString(), ext)
	path, err := s.storage.SaveStream(filename, upload.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist image")
	}
	s.logger.Debug("event image stored", zap.String("path", path), zap.Int64("size", upload.Size))
	return path, nil
}

// Remove deletes a stored image.
func (s *ImageService) Remove(path string) error {
	return s.storage.Delete(path)
}

// Open returns a stored image for streaming.
func (s *ImageService) Open(path string) (*ImageDownload, error) {
	file, err := s.storage.Open(path)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPath) || errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "image not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open image")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat image")
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, appErrors.Clone(appErrors.ErrNotFound, "image not found")
	}
	return &ImageDownload{File: file, Name: info.Name(), ModTime: info.ModTime()}, nil
}

func (s *ImageService) detectMime(upload dto.ImageUpload) (string, error) {
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect image")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "image is empty")
	}
	mimeType := http.DetectContentType(header[:n])
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(mimeType), nil
}

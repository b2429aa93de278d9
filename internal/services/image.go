package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotImage    = errors.New("not a supported image")
	ErrImageTooBig = errors.New("image too large")
)

// imageDir mirrors the upload_to folder of post images.
const imageDir = "posts_images"

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ImageService validates uploaded post images and puts them into storage.
type ImageService struct {
	storage  Storage
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewImageService(storage Storage, maxBytes int64, log *zap.Logger) *ImageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImageService{storage: storage, maxBytes: maxBytes, log: log, now: time.Now}
}

// Upload stores an uploaded image and returns its storage key. The content
// type is sniffed from the bytes, the client supplied one is ignored.
func (s *ImageService) Upload(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header.Size > s.maxBytes {
		return "", ErrImageTooBig
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrImageTooBig
	}

	mtype := mimetype.Detect(data)
	if !allowedImageTypes[mtype.String()] {
		return "", ErrNotImage
	}

	key := path.Join(imageDir, s.now().UTC().Format("2006/01"), uuid.NewString()+mtype.Extension())
	if err := s.storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String()); err != nil {
		return "", err
	}
	s.log.Info("image stored", zap.String("key", key), zap.String("type", mtype.String()), zap.Int("bytes", len(data)))
	return key, nil
}

// Remove deletes a previously stored image. Failures are logged and otherwise ignored.
func (s *ImageService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete image", zap.String("key", key), zap.Error(err))
	}
}

// URL returns the public address of key, or "" for no image.
func (s *ImageService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.storage.URL(key)
}

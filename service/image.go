package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ncobase/shopauth/logging/logger"
	"github.com/ncobase/shopauth/storage"
	"github.com/ncobase/shopauth/structs"
)

// ErrImageType rejects uploads that are not images.
var ErrImageType = errors.New("unsupported image type")

// ErrImageTooLarge rejects uploads over the size limit.
var ErrImageTooLarge = errors.New("image exceeds the size limit")

// maxImageBytes caps profile images at 2048 KB.
const maxImageBytes = 2048 << 10

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// storeImage validates and stores an uploaded image, returning its public URL.
func (s *Service) storeImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", ErrImageType
	}
	if header.Size > maxImageBytes {
		return "", ErrImageTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// The extension alone is not trusted; the bytes must sniff as an image.
	sniff := make([]byte, 512)
	n, err := src.Read(sniff)
	if err != nil && err != io.EOF {
		return "", err
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		return "", ErrImageType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key, err := storage.ObjectKey("avatars", header.Filename)
	if err != nil {
		return "", err
	}
	if _, err := s.storage.Put(key, src); err != nil {
		logger.Errorf(ctx, "image upload failed: %v", err)
		return "", err
	}

	url, err := s.storage.GetURL(key)
	if err != nil {
		url = key
	}
	return url, nil
}

// UploadImage stores a profile image and records its path on the account.
func (s *Service) UploadImage(ctx context.Context, user *structs.User, header *multipart.FileHeader) (string, error) {
	url, err := s.storeImage(ctx, header)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateImage(ctx, user.ID, url); err != nil {
		return "", err
	}

	logger.Infof(ctx, "profile image updated for %s", user.Email)
	return url, nil
}

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxAvatarSize is the largest accepted avatar upload (2MB)
const MaxAvatarSize = 2 << 20

var (
	ErrNotAnImage   = errors.New("file must be a JPEG or PNG image")
	ErrFileTooLarge = errors.New("file size exceeds the 2MB limit")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// AvatarStore persists avatar images and returns their public path
type AvatarStore interface {
	Save(userID string, src io.Reader) (string, error)
}

// LocalAvatarStore writes avatars below a base directory on disk
type LocalAvatarStore struct {
	baseDir string
}

// NewLocalAvatarStore creates a store rooted at baseDir
func NewLocalAvatarStore(baseDir string) *LocalAvatarStore {
	return &LocalAvatarStore{baseDir: baseDir}
}

// Save sniffs the content type, enforces the size limit and writes the file
// under avatars/<userID>/. The returned path uses forward slashes.
func (s *LocalAvatarStore) Save(userID string, src io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, MaxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return "", ErrFileTooLarge
	}

	ext, ok := imageExtensions[http.DetectContentType(data)]
	if !ok {
		return "", ErrNotAnImage
	}

	dir := filepath.Join(s.baseDir, "avatars", filepath.Base(userID))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filePath := filepath.Join(dir, uuid.NewString()+ext)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filepath.ToSlash(filePath), nil
}

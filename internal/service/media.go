package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// DefaultMaxImageBytes bounds uploaded post images.
const DefaultMaxImageBytes = 5 << 20

const postImagesDir = "posts_images"

var (
	ErrImageInvalid  = errors.New("uploaded file is not a supported image")
	ErrImageTooLarge = errors.New("uploaded image is too large")
)

var imageExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// MediaStore keeps uploaded post images on the local filesystem.
type MediaStore struct {
	dir      string
	urlPath  string
	maxBytes int64
}

// NewMediaStore creates a store rooted at dir and served under urlPath.
func NewMediaStore(dir, urlPath string) *MediaStore {
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	if urlPath == "/" {
		urlPath = "/media"
	}
	return &MediaStore{dir: dir, urlPath: urlPath, maxBytes: DefaultMaxImageBytes}
}

// Dir returns the filesystem root of the store.
func (m *MediaStore) Dir() string {
	return m.dir
}

// URLPath returns the URL prefix the store is served under.
func (m *MediaStore) URLPath() string {
	return m.urlPath
}

// SaveImage validates r as a jpeg/png/gif/webp image and stores it under a
// fresh name. It returns the path relative to the media root.
func (m *MediaStore) SaveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, m.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return "", ErrImageTooLarge
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrImageInvalid
	}
	ext, ok := imageExtensions[format]
	if !ok {
		return "", ErrImageInvalid
	}

	targetDir := filepath.Join(m.dir, postImagesDir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(targetDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(postImagesDir, name), nil
}

// Remove deletes a stored image. Missing files are ignored.
func (m *MediaStore) Remove(stored string) error {
	stored = strings.TrimLeft(strings.TrimSpace(stored), "/")
	if stored == "" {
		return nil
	}
	cleaned := path.Clean(stored)
	if strings.HasPrefix(cleaned, "..") {
		return fmt.Errorf("remove image: path %q escapes media root", stored)
	}
	target := filepath.Join(m.dir, filepath.FromSlash(cleaned))
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// URL maps a stored relative path to its public URL.
func (m *MediaStore) URL(stored string) string {
	stored = strings.TrimLeft(strings.TrimSpace(stored), "/")
	if stored == "" {
		return ""
	}
	return m.urlPath + "/" + stored
}

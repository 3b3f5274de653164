// Package storage keeps uploaded images on the local disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize = 5 << 20

// URLPrefix is prepended to stored names to build public URLs.
const URLPrefix = "/image/"

var (
	ErrTooLarge        = errors.New("ไฟล์มีขนาดใหญ่เกิน 5MB")
	ErrUnsupportedType = errors.New("รองรับเฉพาะไฟล์ JPG, PNG, GIF และ WEBP เท่านั้น")
	ErrInvalidName     = errors.New("ชื่อไฟล์ไม่ถูกต้อง")
	ErrNotFound        = errors.New("ไม่พบไฟล์รูปภาพ")
)

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var namePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|gif|webp)$`)

// Image is a stored file read back from disk.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Images stores files in a single flat directory.
type Images struct {
	dir string
}

// NewImages creates dir when missing.
func NewImages(dir string) (*Images, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Images{dir: dir}, nil
}

// Save sniffs r, rejects anything that is not a supported image and writes
// it under a random name. It returns the public URL of the file.
func (s *Images) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	ext, ok := allowed[mt.String()]
	if !ok {
		return "", ErrUnsupportedType
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return URLPrefix + name, nil
}

// Open reads a stored image by file name.
func (s *Images) Open(name string) (*Image, error) {
	if !namePattern.MatchString(name) {
		return nil, ErrInvalidName
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	mt, _ := mimetype.DetectReader(bytes.NewReader(data))
	contentType := "application/octet-stream"
	if mt != nil {
		contentType = mt.String()
	}
	return &Image{Name: name, ContentType: contentType, Data: data}, nil
}

// Delete removes a stored image. ref may be a bare name or a public URL.
func (s *Images) Delete(ref string) error {
	name := NameFromURL(ref)
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Healthy reports whether the directory is still writable.
func (s *Images) Healthy() error {
	f, err := os.CreateTemp(s.dir, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// NameFromURL strips URLPrefix from a public image URL.
func NameFromURL(url string) string {
	return strings.TrimPrefix(url, URLPrefix)
}

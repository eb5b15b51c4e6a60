package service

import (
	"fmt"            // Error wrapping
	"io"             // Stream copy
	"mime/multipart" // Uploaded files
	"os"             // Local disk
	"path/filepath"  // Path handling
	"slices"         // Allow-list lookup
	"strings"        // Extension normalisation

	"github.com/google/uuid"     // Unique file names
	"github.com/sirupsen/logrus" // Structured logging
)

const (
	// DefaultMaxFileSize is the upload limit applied when none is configured
	DefaultMaxFileSize int64 = 5 * 1024 * 1024
	// DefaultImageURL is returned when no file was uploaded
	DefaultImageURL = "https://placehold.co/300x300"
	// ProductImagesFolder is the sub folder holding product images
	ProductImagesFolder = "ProductsImages"
)

// AllowedImageExtensions lists the accepted upload extensions
var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// StoredFile describes a file written by Upload
type StoredFile struct {
	URL       string // Absolute public URL
	LocalPath string // Path on disk, empty for the placeholder
}

// FileService stores uploaded images on local disk
type FileService struct {
	root    string
	maxSize int64
}

// NewFileService stores files under root. A non-positive maxSize means DefaultMaxFileSize.
func NewFileService(root string, maxSize int64) *FileService {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &FileService{root: root, maxSize: maxSize}
}

// Root returns the folder uploads are written under
func (s *FileService) Root() string { return s.root }

// Validate checks the extension and size of an upload without touching disk
func (s *FileService) Validate(file *multipart.FileHeader) error {
	if file == nil || file.Size == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(AllowedImageExtensions, ext) {
		return fmt.Errorf("%w: %q, allowed types: %s", ErrFileTypeNotAllowed, ext, strings.Join(AllowedImageExtensions, ", "))
	}
	if file.Size > s.maxSize {
		return fmt.Errorf("%w of %dMB", ErrFileTooLarge, s.maxSize/(1024*1024))
	}
	return nil
}

// Upload writes file to <root>/<folder>/<entityID>-<uuid><ext> and returns its public URL
// under baseURL. A missing or empty file yields DefaultImageURL.
func (s *FileService) Upload(file *multipart.FileHeader, entityID uuid.UUID, folder, baseURL string) (StoredFile, error) {
	if file == nil || file.Size == 0 {
		return StoredFile{URL: DefaultImageURL}, nil
	}
	if err := s.Validate(file); err != nil {
		return StoredFile{}, err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	fileName := fmt.Sprintf("%s-%s%s", entityID, uuid.New(), ext) // Unique file name

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create upload folder: %w", err)
	}
	dst := filepath.Join(dir, fileName)

	src, err := file.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return StoredFile{}, fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return StoredFile{}, fmt.Errorf("close %s: %w", dst, err)
	}
	return StoredFile{
		URL:       strings.TrimRight(baseURL, "/") + "/" + folder + "/" + fileName,
		LocalPath: dst,
	}, nil
}

// DeleteFile removes path. Failures are logged and swallowed.
func (s *FileService) DeleteFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("Failed to delete file")
	}
}

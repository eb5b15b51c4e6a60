package service

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader holding size bytes
func fileHeader(t *testing.T, name string, size int) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("imageFile", name)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xAB}, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["imageFile"][0]
}

func TestUploadStoresFile(t *testing.T) {
	root := t.TempDir()
	files := NewFileService(root, 0)
	id := uuid.New()

	stored, err := files.Upload(fileHeader(t, "photo.PNG", 128), id, ProductImagesFolder, "http://localhost:8080/")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored.URL, "http://localhost:8080/ProductsImages/"+id.String()+"-"), stored.URL)
	assert.True(t, strings.HasSuffix(stored.URL, ".png"), stored.URL)
	assert.Equal(t, filepath.Join(root, ProductImagesFolder), filepath.Dir(stored.LocalPath))

	info, err := os.Stat(stored.LocalPath)
	require.NoError(t, err)
	assert.EqualValues(t, 128, info.Size())
}

func TestUploadNamesAreUnique(t *testing.T) {
	files := NewFileService(t.TempDir(), 0)
	id := uuid.New()
	a, err := files.Upload(fileHeader(t, "a.jpg", 10), id, ProductImagesFolder, "http://h")
	require.NoError(t, err)
	b, err := files.Upload(fileHeader(t, "a.jpg", 10), id, ProductImagesFolder, "http://h")
	require.NoError(t, err)
	assert.NotEqual(t, a.LocalPath, b.LocalPath)
}

func TestUploadWithoutFileReturnsPlaceholder(t *testing.T) {
	files := NewFileService(t.TempDir(), 0)
	stored, err := files.Upload(nil, uuid.New(), ProductImagesFolder, "http://h")
	require.NoError(t, err)
	assert.Equal(t, DefaultImageURL, stored.URL)
	assert.Empty(t, stored.LocalPath)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	root := t.TempDir()
	files := NewFileService(root, 0)
	_, err := files.Upload(fileHeader(t, "script.exe", 10), uuid.New(), ProductImagesFolder, "http://h")
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing should be written for a rejected upload")
}

func TestUploadRejectsLargeFile(t *testing.T) {
	root := t.TempDir()
	files := NewFileService(root, 1024)
	_, err := files.Upload(fileHeader(t, "big.jpg", 1025), uuid.New(), ProductImagesFolder, "http://h")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDefaultLimitIsFiveMegabytes(t *testing.T) {
	files := NewFileService(t.TempDir(), 0)
	assert.NoError(t, files.Validate(fileHeader(t, "ok.webp", int(DefaultMaxFileSize))))
	assert.ErrorIs(t, files.Validate(fileHeader(t, "big.webp", int(DefaultMaxFileSize)+1)), ErrFileTooLarge)
}

func TestDeleteFileIsBestEffort(t *testing.T) {
	files := NewFileService(t.TempDir(), 0)
	stored, err := files.Upload(fileHeader(t, "a.gif", 4), uuid.New(), ProductImagesFolder, "http://h")
	require.NoError(t, err)

	files.DeleteFile(stored.LocalPath)
	_, err = os.Stat(stored.LocalPath)
	assert.True(t, os.IsNotExist(err))

	// Missing files and empty paths are ignored
	files.DeleteFile(stored.LocalPath)
	files.DeleteFile("")
}

package filestorage

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStorage is the blob store collaborator used for uploads
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its public URL
	SaveFileWithPath(ctx context.Context, fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a file by the URL SaveFileWithPath returned.
	// Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, fileURL string) error
}

// objectKey builds "<subPath>/<uuid><ext>" with a lowercased extension
func objectKey(subPath, filename string) string {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	subPath = strings.Trim(subPath, "/")
	if subPath == "" {
		return name
	}
	return subPath + "/" + name
}

// keyFromURL strips baseURL from fileURL. ok is false when fileURL was not
// produced under baseURL or points outside it.
func keyFromURL(fileURL, baseURL string) (key string, ok bool) {
	base := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(fileURL, base) {
		return "", false
	}
	key = strings.TrimPrefix(fileURL, base)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

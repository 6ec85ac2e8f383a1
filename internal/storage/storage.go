package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const uploadPrefix = "uploads/"

// Stored describes an object written to the bucket.
type Stored struct {
	Path      string `json:"filePath"`
	PublicURL string `json:"publicUrl"`
}

// FileStore persists uploaded documents.
type FileStore interface {
	Store(ctx context.Context, data []byte, contentType, fileName string) (Stored, error)
	Delete(ctx context.Context, path string) error
}

// ObjectPath returns uploads/<uuid><ext>, keeping the lower-cased extension of fileName.
func ObjectPath(fileName string) string {
	return uploadPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}

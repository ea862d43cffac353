// Package filestore is the file storage capability: store bytes under a
// name, open them by name, delete them by name.
package filestore

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrInvalidName is returned for names that are empty or would address
// anything other than a single entry in the storage root.
var ErrInvalidName = errors.New("invalid storage name")

// Storage stores uploaded files addressed by name. Missing names are
// reported with errors matching fs.ErrNotExist.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader) (*ObjectInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// ObjectInfo represents metadata about a stored file.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// validateName rejects names that are not a single plain path element.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return ErrInvalidName
	}
	return nil
}

// Package photostore owns the photos table: one row per uploaded file,
// mapping an auto-increment id to the file's stored name.
package photostore

import (
	"context"
	"errors"

	"github.com/sumansasma/photo-server/domain/photo"
)

// ErrNotFound is returned when no photo has the requested id.
var ErrNotFound = errors.New("photo not found")

// Store is the metadata store capability. Implementations must return rows
// from FindAll in ascending id order.
type Store interface {
	Create(ctx context.Context, filename string) (*photo.Photo, error)
	FindAll(ctx context.Context) ([]photo.Photo, error)
	FindByID(ctx context.Context, id uint) (*photo.Photo, error)
	Delete(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
	Close() error
}

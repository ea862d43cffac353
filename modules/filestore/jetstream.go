package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
)

// JetStreamStorage stores files in a NATS JetStream object store bucket
// provided by the fs-jetstream plugin.
type JetStreamStorage struct {
	bucket fsjetstream.FileStoragePort
}

var _ Storage = (*JetStreamStorage)(nil)

// NewJetStreamStorage creates a storage backed by bucket.
func NewJetStreamStorage(bucket fsjetstream.FileStoragePort) *JetStreamStorage {
	return &JetStreamStorage{bucket: bucket}
}

// Save stores r under name. An existing name is never replaced.
func (s *JetStreamStorage) Save(_ context.Context, name string, r io.Reader) (*ObjectInfo, error) {
	_, err := s.lookup(name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%s: %w", name, fs.ErrExist)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	contentType := DetectContentType(name)
	info, err := s.bucket.PutReader(name, r, 0,
		fsjetstream.WithDescription(fmt.Sprintf("Photo: %s", name)),
		fsjetstream.WithHeaders(map[string]string{
			"Content-Type": contentType,
			"Uploaded-At":  time.Now().Format(time.RFC3339),
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	return &ObjectInfo{
		Name:        name,
		Size:        int64(info.Size),
		ContentType: contentType,
		ModTime:     info.ModTime,
	}, nil
}

// Open returns a reader over the stored object.
func (s *JetStreamStorage) Open(_ context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	obj, err := s.lookup(name)
	if err != nil {
		return nil, nil, err
	}

	reader, _, err := s.bucket.GetReader(obj.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get file stream: %w", err)
	}

	return reader, &ObjectInfo{
		Name:        obj.Name,
		Size:        int64(obj.Size),
		ContentType: getContentType(obj.Headers, obj.Name),
		ModTime:     obj.ModTime,
	}, nil
}

// Delete removes the object stored under name.
func (s *JetStreamStorage) Delete(_ context.Context, name string) error {
	obj, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(obj.Name); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// lookup finds the object stored under exactly name.
func (s *JetStreamStorage) lookup(name string) (*fsjetstream.ObjectInfo, error) {
	if err := validateName(name); err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}

	objects, err := s.bucket.List(fsjetstream.WithPrefix(name))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	for i := range objects {
		if objects[i].Name == name {
			return &objects[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// getContentType extracts the content type from headers, falling back to
// the extension table.
func getContentType(headers map[string]string, name string) string {
	if ct, ok := headers["Content-Type"]; ok && ct != "" {
		return ct
	}
	return DetectContentType(name)
}

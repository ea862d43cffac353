package filestore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStorage stores files as plain entries of a single local directory.
type DiskStorage struct {
	root string
}

var _ Storage = (*DiskStorage)(nil)

// NewDiskStorage creates a DiskStorage rooted at root, creating the
// directory if needed.
func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %q: %w", root, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	return &DiskStorage{root: absRoot}, nil
}

// Root returns the absolute directory files are stored in.
func (d *DiskStorage) Root() string {
	return d.root
}

func (d *DiskStorage) path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}
	return filepath.Join(d.root, name), nil
}

// Save streams r into name through a temp file that is linked into place,
// so a failed write never leaves a partial file under the final name.
// An existing name is never replaced: Save fails with an error matching
// fs.ErrExist.
func (d *DiskStorage) Save(_ context.Context, name string, r io.Reader) (*ObjectInfo, error) {
	dest, err := d.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Lstat(dest); err == nil {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrExist)
	}

	f, err := os.CreateTemp(d.root, ".upload-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	n, werr := io.Copy(f, r)
	cerr := f.Close()

	if werr != nil {
		os.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("write %s: %w", name, werr)
	}
	if cerr != nil {
		os.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("flush %s: %w", name, cerr)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return nil, fmt.Errorf("chmod %s: %w", name, err)
	}
	// Link fails when dest exists, unlike Rename.
	err = os.Link(tmp, dest)
	os.Remove(tmp) //nolint:errcheck
	if err != nil {
		return nil, fmt.Errorf("link to %s: %w", name, err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, err
	}
	return &ObjectInfo{
		Name:        name,
		Size:        n,
		ContentType: DetectContentType(name),
		ModTime:     info.ModTime(),
	}, nil
}

// Open opens name for reading. The caller must close the returned reader.
func (d *DiskStorage) Open(_ context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %q is a directory", ErrInvalidName, name)
	}

	return f, &ObjectInfo{
		Name:        name,
		Size:        info.Size(),
		ContentType: DetectContentType(name),
		ModTime:     info.ModTime(),
	}, nil
}

// Delete removes name. A missing file is an error.
func (d *DiskStorage) Delete(_ context.Context, name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

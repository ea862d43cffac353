// Package photos implements the upload, listing and deletion workflows on
// top of the metadata store and the file storage capability.
package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"sync/atomic"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/sumansasma/photo-server/domain/photo"
	"github.com/sumansasma/photo-server/modules/filestore"
	"github.com/sumansasma/photo-server/modules/listcache"
	"github.com/sumansasma/photo-server/modules/photostore"
	"golang.org/x/sync/singleflight"
)

const listCacheKey = "photos:all"

var idPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// Service coordinates the file storage and the metadata store.
//
// Every write touches the file first and the row second. There is no
// transaction across the two: a failed row insert leaves an orphan file,
// and a failed row delete leaves an orphan row.
type Service struct {
	store  photostore.Store
	files  filestore.Storage
	cache  listcache.Cache
	names  *NameGenerator
	logger types.Logger

	group      singleflight.Group
	generation atomic.Uint64
}

// NewService creates a photo service. A nil cache disables caching and a
// nil names uses a generator on the wall clock.
func NewService(
	store photostore.Store,
	files filestore.Storage,
	cache listcache.Cache,
	names *NameGenerator,
	logger types.Logger,
) *Service {
	if cache == nil {
		cache = listcache.NopCache{}
	}
	if names == nil {
		names = NewNameGenerator(nil)
	}
	return &Service{
		store:  store,
		files:  files,
		cache:  cache,
		names:  names,
		logger: logger,
	}
}

// List returns every record in ascending id order. It never returns a nil
// slice on success.
func (s *Service) List(ctx context.Context) ([]photo.Photo, error) {
	var cached []photo.Photo
	found, err := s.cache.Get(ctx, listCacheKey, &cached)
	if err != nil {
		s.logger.Warn("List cache read failed", "error", err)
	}
	if found && err == nil {
		if cached == nil {
			cached = []photo.Photo{}
		}
		return cached, nil
	}

	// The shared query runs detached from any one caller; each caller waits
	// on its own context.
	gen := s.generation.Load()
	ch := s.group.DoChan(flightKey(gen), func() (any, error) {
		return s.loadList(context.WithoutCancel(ctx), gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers sharing a singleflight result must not see each other's edits.
		rows := res.Val.([]photo.Photo)
		out := make([]photo.Photo, len(rows))
		copy(out, rows)
		return out, nil
	}
}

// loadList reads every row from the store and caches the result. gen is the
// write generation observed before the read started.
func (s *Service) loadList(ctx context.Context, gen uint64) ([]photo.Photo, error) {
	rows, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []photo.Photo{}
	}

	if err := s.cache.Set(ctx, listCacheKey, rows); err != nil {
		s.logger.Warn("List cache write failed", "error", err)
		return rows, nil
	}
	// A write that landed during the read may have invalidated before the Set
	// above; drop the stale copy so the next listing sees that write.
	if s.generation.Load() != gen {
		if err := s.cache.Delete(ctx, listCacheKey); err != nil {
			s.logger.Warn("List cache invalidation failed", "error", err)
		}
	}
	return rows, nil
}

func flightKey(gen uint64) string {
	return listCacheKey + "#" + strconv.FormatUint(gen, 10)
}

// Filenames returns the stored name of every record in ascending id order.
func (s *Service) Filenames(ctx context.Context) ([]string, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return photo.Filenames(rows), nil
}

// Upload stores r under a freshly generated name and records it.
func (s *Service) Upload(ctx context.Context, originalName string, r io.Reader) (*photo.Photo, error) {
	if r == nil {
		return nil, ErrNoFile
	}

	name := s.names.Next(originalName)
	info, err := s.files.Save(ctx, name, r)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Create(ctx, name)
	if err != nil {
		s.logger.Warn("Stored file has no record", "filename", name, "error", err)
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("Photo uploaded",
		"id", p.ID,
		"filename", p.Filename,
		"original", originalName,
		"size", info.Size)
	return p, nil
}

// Delete removes the file and then the record identified by idToken.
func (s *Service) Delete(ctx context.Context, idToken string) error {
	id, err := ParseID(idToken)
	if err != nil {
		return err
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, photostore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.files.Delete(ctx, p.Filename); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, p.ID); err != nil {
		s.logger.Warn("Record has no file", "id", p.ID, "filename", p.Filename, "error", err)
		return err
	}
	s.invalidate(ctx)

	s.logger.Info("Photo deleted", "id", p.ID, "filename", p.Filename)
	return nil
}

// OpenFile opens a stored file by name for reading.
func (s *Service) OpenFile(ctx context.Context, name string) (io.ReadCloser, *filestore.ObjectInfo, error) {
	return s.files.Open(ctx, name)
}

// invalidate bumps the write generation and drops the cached listing. It
// runs after the row write has committed, even if the request was cancelled.
func (s *Service) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.Delete(context.WithoutCancel(ctx), listCacheKey); err != nil {
		s.logger.Warn("List cache invalidation failed", "error", err)
	}
}

// ParseID validates an id path token. Tokens that are not positive decimal
// integers yield ErrInvalidID; well-formed tokens too large to be an id
// yield ErrNotFound, since no record can carry them.
func ParseID(token string) (uint, error) {
	if !idPattern.MatchString(token) {
		return 0, ErrInvalidID
	}
	// Ids are stored as signed 64-bit integers, and uint may be narrower.
	n, err := strconv.ParseUint(token, 10, strconv.IntSize)
	if err != nil || n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: id %s out of range", ErrNotFound, token)
	}
	return uint(n), nil
}

package photostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/sumansasma/photo-server/domain/photo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on top of GORM.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// OpenSQLite opens (creating if needed) the SQLite database at path and
// migrates the photos table.
func OpenSQLite(path string, debug bool) (*GormStore, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := NewGormStore(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return store, nil
}

// NewGormStore wraps an open GORM handle and runs migrations.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&photo.Photo{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Create inserts a new photo row and returns it with its assigned id.
func (s *GormStore) Create(ctx context.Context, filename string) (*photo.Photo, error) {
	p := &photo.Photo{Filename: filename}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}
	return p, nil
}

// FindAll retrieves every photo.
func (s *GormStore) FindAll(ctx context.Context) ([]photo.Photo, error) {
	photos := make([]photo.Photo, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// FindByID retrieves a photo by its id.
func (s *GormStore) FindByID(ctx context.Context, id uint) (*photo.Photo, error) {
	var p photo.Photo
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	return &p, nil
}

// Delete removes a photo row by id.
func (s *GormStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&photo.Photo{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

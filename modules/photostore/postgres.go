package photostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sumansasma/photo-server/domain/photo"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS photos (
	id       BIGSERIAL PRIMARY KEY,
	filename TEXT NOT NULL
)`

// PostgresStore implements Store with a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to databaseURL and creates the photos table if missing.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store, err := NewPostgresStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an existing pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create photos table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Create inserts a new photo row and returns it with its assigned id.
func (s *PostgresStore) Create(ctx context.Context, filename string) (*photo.Photo, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		"INSERT INTO photos (filename) VALUES ($1) RETURNING id", filename,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo: %w", err)
	}
	return &photo.Photo{ID: uint(id), Filename: filename}, nil
}

// FindAll retrieves every photo.
func (s *PostgresStore) FindAll(ctx context.Context) ([]photo.Photo, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, filename FROM photos ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	photos, err := pgx.CollectRows(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	if photos == nil {
		photos = make([]photo.Photo, 0)
	}
	return photos, nil
}

// FindByID retrieves a photo by its id.
func (s *PostgresStore) FindByID(ctx context.Context, id uint) (*photo.Photo, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, filename FROM photos WHERE id = $1", int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	p, err := pgx.CollectOneRow(rows, scanPhoto)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	return &p, nil
}

// Delete removes a photo row by id.
func (s *PostgresStore) Delete(ctx context.Context, id uint) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM photos WHERE id = $1", int64(id))
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the pool can reach the database.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPhoto(row pgx.CollectableRow) (photo.Photo, error) {
	var (
		id       int64
		filename string
	)
	if err := row.Scan(&id, &filename); err != nil {
		return photo.Photo{}, err
	}
	return photo.Photo{ID: uint(id), Filename: filename}, nil
}

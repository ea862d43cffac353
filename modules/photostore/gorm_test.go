package photostore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sumansasma/photo-server/domain/photo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := NewGormStore(db)
	if err != nil {
		t.Fatalf("NewGormStore() error = %v", err)
	}
	return store, db
}

func TestGormStore_Create(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, "1697040000000.png")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := store.Create(ctx, "1697040000001.jpg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if first.ID == 0 {
		t.Error("expected an assigned id, got 0")
	}
	if second.ID <= first.ID {
		t.Errorf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}

	var found photo.Photo
	if err := db.First(&found, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("failed to find created photo: %v", err)
	}
	if found.Filename != "1697040000000.png" {
		t.Errorf("expected filename %q, got %q", "1697040000000.png", found.Filename)
	}
}

func TestGormStore_IDsAreNotReused(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	p, err := store.Create(ctx, "a.png")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	next, err := store.Create(ctx, "b.png")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if next.ID <= p.ID {
		t.Errorf("expected id greater than deleted id %d, got %d", p.ID, next.ID)
	}
}

func TestGormStore_FindAll(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		photos, err := store.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if photos == nil {
			t.Error("expected empty slice, got nil")
		}
		if len(photos) != 0 {
			t.Errorf("expected 0 photos, got %d", len(photos))
		}
	})

	names := []string{"1.png", "2.jpg", "3.gif"}
	for _, name := range names {
		if _, err := store.Create(ctx, name); err != nil {
			t.Fatalf("failed to create test photo: %v", err)
		}
	}

	t.Run("with photos", func(t *testing.T) {
		photos, err := store.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(photos) != len(names) {
			t.Fatalf("expected %d photos, got %d", len(names), len(photos))
		}
		for i, p := range photos {
			if p.Filename != names[i] {
				t.Errorf("photos[%d].Filename = %q, want %q", i, p.Filename, names[i])
			}
		}
	})
}

func TestGormStore_FindByID(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "find-me.png")
	if err != nil {
		t.Fatalf("failed to create test photo: %v", err)
	}

	t.Run("existing photo", func(t *testing.T) {
		found, err := store.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Filename != "find-me.png" {
			t.Errorf("expected filename %q, got %q", "find-me.png", found.Filename)
		}
	})

	t.Run("non-existent photo", func(t *testing.T) {
		_, err := store.FindByID(ctx, created.ID+100)
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGormStore_Delete(t *testing.T) {
	store, db := setupTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "to-delete.png")
	if err != nil {
		t.Fatalf("failed to create test photo: %v", err)
	}

	t.Run("delete existing photo", func(t *testing.T) {
		if err := store.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// Hard delete: the row is gone even for unscoped queries.
		var count int64
		db.Unscoped().Model(&photo.Photo{}).Where("id = ?", created.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected row to be removed, found %d", count)
		}
	})

	t.Run("delete non-existent photo", func(t *testing.T) {
		if err := store.Delete(ctx, created.ID); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.db")
	ctx := context.Background()

	store, err := OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if _, err := store.Create(ctx, "kept.png"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer reopened.Close()

	photos, err := reopened.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(photos) != 1 || photos[0].Filename != "kept.png" {
		t.Errorf("expected one photo named kept.png, got %+v", photos)
	}
}

package photostore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the metadata store backend.
type Config struct {
	Driver      string
	Path        string
	DatabaseURL string
	Debug       bool
}

// Module owns the metadata store lifecycle: it opens the database and
// creates the schema on Start and closes it on Stop.
type Module struct {
	cfg    Config
	store  Store
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new metadata store module.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// NewModuleWithStore creates a module around an already opened store.
// Start keeps the injected store instead of opening a new one.
func NewModuleWithStore(store Store, logger types.Logger) *Module {
	return &Module{
		store:  store,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "photostore"
}

// RegisterServices registers read-only request-reply services.
// The framework prefixes them, so "list" becomes "services.photostore.list".
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listPhotos,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getPhoto,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"services.photostore.list", "services.photostore.get"})
	return nil
}

// Start opens the configured database and migrates the schema.
func (m *Module) Start(ctx context.Context) error {
	if m.store != nil {
		m.logger.Info("Metadata store started with injected store")
		return nil
	}

	var err error
	switch m.cfg.Driver {
	case DriverSQLite, "":
		m.logger.Info("Opening SQLite database", "path", m.cfg.Path)
		m.store, err = OpenSQLite(m.cfg.Path, m.cfg.Debug)
	case DriverPostgres:
		m.logger.Info("Connecting to PostgreSQL")
		m.store, err = OpenPostgres(ctx, m.cfg.DatabaseURL)
	default:
		return fmt.Errorf("unsupported metadata store driver %q", m.cfg.Driver)
	}
	if err != nil {
		return err
	}

	m.logger.Info("Metadata store started", "driver", m.driver())
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Close(); err != nil {
		return err
	}
	m.logger.Info("Metadata store closed")
	return nil
}

// Health pings the database.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.driver(),
		},
	}
}

// Store returns the metadata store. It is nil until Start succeeds.
func (m *Module) Store() Store {
	return m.store
}

func (m *Module) driver() string {
	if m.cfg.Driver == "" {
		return DriverSQLite
	}
	return m.cfg.Driver
}

// listPhotos handles the photostore.list service request.
func (m *Module) listPhotos(ctx context.Context, _ ListPhotosRequest, _ *mono.Msg) (ListPhotosResponse, error) {
	if m.store == nil {
		return ListPhotosResponse{}, fmt.Errorf("metadata store not started")
	}

	photos, err := m.store.FindAll(ctx)
	if err != nil {
		return ListPhotosResponse{}, err
	}
	return ListPhotosResponse{Photos: photos, Total: len(photos)}, nil
}

// getPhoto handles the photostore.get service request.
func (m *Module) getPhoto(ctx context.Context, req GetPhotoRequest, _ *mono.Msg) (PhotoResponse, error) {
	if m.store == nil {
		return PhotoResponse{}, fmt.Errorf("metadata store not started")
	}
	if req.ID == 0 {
		return PhotoResponse{}, fmt.Errorf("id is required")
	}

	p, err := m.store.FindByID(ctx, req.ID)
	if err != nil {
		return PhotoResponse{}, err
	}
	return PhotoResponse{ID: p.ID, Filename: p.Filename}, nil
}

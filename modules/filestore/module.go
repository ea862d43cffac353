package filestore

import (
	"context"
	"fmt"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
)

// Supported backends.
const (
	BackendDisk      = "disk"
	BackendJetStream = "jetstream"
)

// BucketName is the fs-jetstream bucket photos are stored in.
const BucketName = "photos"

// Module provides the file storage capability to other modules.
type Module struct {
	backend   string
	uploadDir string
	plugin    *fsjetstream.PluginModule
	storage   Storage
	logger    types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a file storage module. uploadDir is only used by the
// disk backend.
func NewModule(backend, uploadDir string, logger types.Logger) *Module {
	return &Module{
		backend:   backend,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "filestore"
}

// SetPlugin receives the fs-jetstream plugin from the framework.
// This is called before Start() when the plugin is registered as "storage".
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "storage" {
		return
	}
	storage, ok := plugin.(*fsjetstream.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for storage",
			"alias", alias,
			"expected", "*fsjetstream.PluginModule")
		return
	}
	m.plugin = storage
	m.logger.Info("Received storage plugin", "alias", alias)
}

// Start creates the configured storage backend.
func (m *Module) Start(_ context.Context) error {
	switch m.backend {
	case BackendDisk, "":
		disk, err := NewDiskStorage(m.uploadDir)
		if err != nil {
			return err
		}
		m.storage = disk
		m.logger.Info("File storage started", "backend", BackendDisk, "dir", disk.Root())
	case BackendJetStream:
		if m.plugin == nil {
			return fmt.Errorf("required plugin 'storage' not registered")
		}
		bucket := m.plugin.Bucket(BucketName)
		if bucket == nil {
			return fmt.Errorf("bucket '%s' not found in storage plugin", BucketName)
		}
		m.storage = NewJetStreamStorage(bucket)
		m.logger.Info("File storage started", "backend", BackendJetStream, "bucket", BucketName)
	default:
		return fmt.Errorf("unsupported storage backend %q", m.backend)
	}
	return nil
}

// Stop shuts down the module. Stored files are left in place.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("File storage stopped")
	return nil
}

// Health reports whether the storage backend is usable.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{Healthy: false, Message: "storage not initialized"}
	}

	if disk, ok := m.storage.(*DiskStorage); ok {
		info, err := os.Stat(disk.Root())
		if err != nil || !info.IsDir() {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("upload directory unavailable: %v", err),
			}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"backend": BackendDisk, "dir": disk.Root()},
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"backend": BackendJetStream, "bucket": BucketName},
	}
}

// Storage returns the storage backend. It is nil until Start succeeds.
func (m *Module) Storage() Storage {
	return m.storage
}

// Package httpserver exposes the photo service over HTTP using Gin.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/sumansasma/photo-server/modules/filestore"
	"github.com/sumansasma/photo-server/modules/listcache"
	"github.com/sumansasma/photo-server/modules/photos"
	"github.com/sumansasma/photo-server/modules/photostore"
)

// Config configures the HTTP server.
type Config struct {
	Port          int
	PublicDir     string
	MaxUploadSize int64
}

// Module implements an HTTP server using the Gin framework.
type Module struct {
	cfg      Config
	server   *http.Server
	engine   *gin.Engine
	handlers *Handlers

	storeModule *photostore.Module
	fileModule  *filestore.Module
	cacheModule *listcache.Module

	logger types.Logger
}

// Compile-time interface checks
var _ mono.Module = (*Module)(nil)

// NewModule creates a new HTTP server module.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// SetDependencies sets the modules the server reads from. The cache module
// is optional.
func (m *Module) SetDependencies(store *photostore.Module, files *filestore.Module, cache *listcache.Module) {
	m.storeModule = store
	m.fileModule = files
	m.cacheModule = cache
}

// Start builds the photo service and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.cfg.Port),
		Handler:           m.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		m.logger.Info("HTTP server starting", "port", m.cfg.Port)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.server != nil {
		m.logger.Info("Shutting down HTTP server")
		return m.server.Shutdown(ctx)
	}
	return nil
}

// setup builds the photo service, handlers and Gin engine.
func (m *Module) setup() error {
	if m.storeModule == nil || m.storeModule.Store() == nil {
		return fmt.Errorf("photostore module not set or not started")
	}
	if m.fileModule == nil || m.fileModule.Storage() == nil {
		return fmt.Errorf("filestore module not set or not started")
	}

	var cache listcache.Cache
	checks := map[string]mono.HealthCheckableModule{
		m.storeModule.Name(): m.storeModule,
		m.fileModule.Name():  m.fileModule,
	}
	optional := map[string]mono.HealthCheckableModule{}
	if m.cacheModule != nil {
		cache = m.cacheModule.Cache()
		optional[m.cacheModule.Name()] = m.cacheModule
	}

	service := photos.NewService(
		m.storeModule.Store(),
		m.fileModule.Storage(),
		cache,
		photos.NewNameGenerator(nil),
		m.logger,
	)
	m.handlers = NewHandlers(service, checks, optional, m.cfg.MaxUploadSize)

	gin.SetMode(gin.ReleaseMode)
	m.engine = m.newEngine()
	return nil
}

// newEngine creates the Gin engine with middleware and routes.
func (m *Module) newEngine() *gin.Engine {
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(m.loggingMiddleware())
	engine.Use(corsMiddleware())

	engine.MaxMultipartMemory = m.cfg.MaxUploadSize

	m.registerRoutes(engine)
	return engine
}

// registerRoutes sets up all HTTP routes.
func (m *Module) registerRoutes(engine *gin.Engine) {
	engine.GET("/", m.handlers.RedirectToForm)
	engine.GET("/health", m.handlers.HealthCheck)

	engine.GET("/upload-files", m.handlers.ListPhotos)
	engine.GET("/photos", m.handlers.ListFilenames)
	engine.POST("/upload", m.handlers.UploadPhoto)
	engine.DELETE("/delete-file/:id", m.handlers.DeletePhoto)

	engine.GET("/uploads/:filename", m.handlers.ServeUpload)
	engine.HEAD("/uploads/:filename", m.handlers.ServeUpload)

	// Everything else is a static client asset.
	engine.NoRoute(staticHandler(m.cfg.PublicDir))
}

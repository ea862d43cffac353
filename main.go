package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	fsjetstream "github.com/go-monolith/mono/plugin/fs-jetstream"
	"github.com/sumansasma/photo-server/config"
	"github.com/sumansasma/photo-server/modules/filestore"
	"github.com/sumansasma/photo-server/modules/httpserver"
	"github.com/sumansasma/photo-server/modules/listcache"
	"github.com/sumansasma/photo-server/modules/photostore"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Println("=== Photo Server ===")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Metadata Store: %s", cfg.DBDriver)
	log.Printf("File Storage: %s", cfg.StorageBackend)
	log.Printf("Max Upload Size: %d bytes", cfg.MaxUploadSize)
	if cfg.RedisAddr != "" {
		log.Printf("List Cache: redis at %s (ttl %s)", cfg.RedisAddr, cfg.CacheTTL)
	}

	logLevel := mono.LogLevelInfo
	if cfg.LogLevel == "error" {
		logLevel = mono.LogLevelError
	}

	// Create mono application with embedded NATS JetStream
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
		mono.WithJetStreamStorageDir(cfg.JetStreamDir),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Uploaded files live in a JetStream object store bucket instead of
	// UPLOAD_DIR. The embedded NATS server needs no external setup.
	if cfg.StorageBackend == config.BackendJetStream {
		storagePlugin, err := fsjetstream.New(fsjetstream.Config{
			Buckets: []fsjetstream.BucketConfig{
				{
					Name:        filestore.BucketName,
					Description: "Uploaded photos",
					MaxBytes:    1024 * 1024 * 1024, // 1GB max storage
					Storage:     fsjetstream.FileStorage,
				},
			},
		})
		if err != nil {
			log.Fatalf("Failed to create storage plugin: %v", err)
		}
		if err := app.RegisterPlugin(storagePlugin, "storage"); err != nil {
			log.Fatalf("Failed to register storage plugin: %v", err)
		}
	}

	storeModule := photostore.NewModule(photostore.Config{
		Driver:      cfg.DBDriver,
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		Debug:       cfg.DBDebug,
	}, app.Logger())
	fileModule := filestore.NewModule(cfg.StorageBackend, cfg.UploadDir, app.Logger())
	cacheModule := listcache.NewModule(cfg.RedisAddr, cfg.CacheTTL, app.Logger())
	httpModule := httpserver.NewModule(httpserver.Config{
		Port:          cfg.HTTPPort,
		PublicDir:     cfg.PublicDir,
		MaxUploadSize: cfg.MaxUploadSize,
	}, app.Logger())

	httpModule.SetDependencies(storeModule, fileModule, cacheModule)

	// Registration order is start order: the HTTP server comes last.
	app.Register(storeModule)
	app.Register(fileModule)
	app.Register(cacheModule)
	app.Register(httpModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("Server is running on port %d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /                   - Redirect to the upload form")
	log.Println("  GET    /upload-files       - List photo records")
	log.Println("  GET    /photos             - List photo filenames")
	log.Println("  POST   /upload             - Upload a photo (field \"photo\")")
	log.Println("  DELETE /delete-file/:id    - Delete a photo")
	log.Println("  GET    /uploads/:filename  - Download a photo")
	log.Println("  GET    /health             - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

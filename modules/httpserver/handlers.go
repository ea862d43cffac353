package httpserver

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/sumansasma/photo-server/modules/filestore"
	"github.com/sumansasma/photo-server/modules/photos"
)

// Response bodies expected by existing clients.
const (
	msgUploaded  = "File uploaded Successfully"
	msgNoFile    = "No file uploaded."
	msgTooLarge  = "File too large."
	msgInvalidID = "Invalid file ID"
	msgNotFound  = "File not found"
	msgDeleted   = "File deleted successfully"
)

const (
	uploadFormPath  = "/upload.html"
	uploadFieldName = "photo"
)

// Handlers contains HTTP request handlers for photo operations.
type Handlers struct {
	service       *photos.Service
	checks        map[string]mono.HealthCheckableModule
	optional      map[string]mono.HealthCheckableModule
	maxUploadSize int64
}

// NewHandlers creates a new handlers instance. The health endpoint fails
// when any of checks is unhealthy; optional modules are only reported.
func NewHandlers(
	service *photos.Service,
	checks map[string]mono.HealthCheckableModule,
	optional map[string]mono.HealthCheckableModule,
	maxUploadSize int64,
) *Handlers {
	return &Handlers{
		service:       service,
		checks:        checks,
		optional:      optional,
		maxUploadSize: maxUploadSize,
	}
}

// RedirectToForm handles GET /.
func (h *Handlers) RedirectToForm(c *gin.Context) {
	c.Redirect(http.StatusFound, uploadFormPath)
}

// ListPhotos handles GET /upload-files.
func (h *Handlers) ListPhotos(c *gin.Context) {
	rows, err := h.service.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListFilenames handles GET /photos.
func (h *Handlers) ListFilenames(c *gin.Context) {
	names, err := h.service.Filenames(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, names)
}

// UploadPhoto handles POST /upload with the file in the "photo" field.
func (h *Handlers) UploadPhoto(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	header, err := c.FormFile(uploadFieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		c.String(http.StatusBadRequest, msgNoFile)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	defer file.Close()

	if _, err := h.service.Upload(c.Request.Context(), header.Filename, file); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.String(http.StatusOK, msgUploaded)
}

// DeletePhoto handles DELETE /delete-file/:id.
func (h *Handlers) DeletePhoto(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.String(http.StatusOK, msgDeleted)
	case errors.Is(err, photos.ErrInvalidID):
		c.String(http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, photos.ErrNotFound):
		c.String(http.StatusNotFound, msgNotFound)
	default:
		c.String(http.StatusInternalServerError, err.Error())
	}
}

// ServeUpload handles GET and HEAD /uploads/:filename.
func (h *Handlers) ServeUpload(c *gin.Context) {
	rc, info, err := h.service.OpenFile(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, filestore.ErrInvalidName) {
			c.String(http.StatusNotFound, msgNotFound)
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, map[string]string{
		"Last-Modified": info.ModTime.UTC().Format(http.TimeFormat),
	})
}

// HealthCheck handles GET /health. The list cache is optional: listing
// falls back to the store, so a cache outage alone still answers 200.
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	healthy := true
	modules := make(map[string]mono.HealthStatus, len(h.checks)+len(h.optional))
	for name, check := range h.checks {
		status := check.Health(ctx)
		modules[name] = status
		if !status.Healthy {
			healthy = false
		}
	}
	for name, check := range h.optional {
		modules[name] = check.Health(ctx)
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "modules": modules})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "modules": modules})
}

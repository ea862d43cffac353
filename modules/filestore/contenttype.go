package filestore

import (
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// contentTypeByExt maps file extensions to MIME types.
var contentTypeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jfif": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",
	".txt":  "text/plain",
	".json": "application/json",
	".pdf":  "application/pdf",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// DetectContentType determines the content type based on file extension.
func DetectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := contentTypeByExt[ext]; ok {
		return contentType
	}
	return defaultContentType
}

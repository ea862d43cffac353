package photostore

import "github.com/sumansasma/photo-server/domain/photo"

// ListPhotosRequest is the request for listing photos.
type ListPhotosRequest struct{}

// ListPhotosResponse is the response containing every photo record.
type ListPhotosResponse struct {
	Photos []photo.Photo `json:"photos"`
	Total  int           `json:"total"`
}

// GetPhotoRequest is the request for getting a photo by id.
type GetPhotoRequest struct {
	ID uint `json:"id"`
}

// PhotoResponse represents a single photo record.
type PhotoResponse struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
}

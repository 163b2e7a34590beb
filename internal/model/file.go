package model

import "time"

// UploadedFile represents one file in an intake batch.
// The raw bytes live in object storage under StoragePath; this is the metadata
// record kept per file for the lifetime of the batch.
type UploadedFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	// PreviewURL is a time-limited download URL, populated for image sources
	// only. It expires on its own; the underlying object is removed when the
	// file is deleted from the batch.
	PreviewURL string    `json:"preview_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsImage reports whether the declared content type is a raster image.
func (f *UploadedFile) IsImage() bool {
	return len(f.ContentType) > 6 && f.ContentType[:6] == "image/"
}

package model

import "time"

// JobStatus is the per-file conversion state.
type JobStatus string

const (
	StatusIdle       JobStatus = "idle"
	StatusConverting JobStatus = "converting"
	StatusDone       JobStatus = "done"
	StatusError      JobStatus = "error"
)

// ConversionResult describes a successfully produced artifact. It is immutable
// once attached to a job; the blob itself lives in object storage.
type ConversionResult struct {
	// Format is the MIME type actually produced.
	Format      string `json:"format"`
	StoragePath string `json:"storage_path"`
	Size        int64  `json:"size"`
}

// ConversionJob is the transient per-file conversion state. Transitions are
// strictly sequential: idle -> converting -> done|error. A job in "error" may
// be re-armed back to "converting" on retry.
type ConversionJob struct {
	FileID    string            `json:"file_id"`
	Status    JobStatus         `json:"status"`
	Target    string            `json:"target"`
	Result    *ConversionResult `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

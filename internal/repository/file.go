package repository

import (
	"context"

	"convertapi/internal/model"
)

// FileRepository defines data access for uploaded files using SQL queries only.
// No business logic here — strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file record.
	// The caller provides required fields (ID, CreatedAt) according to the schema defaults.
	// Returns the stored record (may include values set by the DB).
	Create(ctx context.Context, f *model.UploadedFile) (*model.UploadedFile, error)

	// FindByID returns a file by its ID.
	FindByID(ctx context.Context, id string) (*model.UploadedFile, error)

	// List returns a paginated list of files and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.UploadedFile], error)

	// Delete removes a file by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"convertapi/internal/model"
)

// BoardRepository defines data access for persisted whiteboards. The board
// payload is an opaque encoded blob; this layer never inspects it.
type BoardRepository interface {
	// Save inserts the board or updates it in place when the ID already exists.
	Save(ctx context.Context, b *model.Board) (*model.Board, error)

	// FindByID returns a board by its ID.
	FindByID(ctx context.Context, id string) (*model.Board, error)

	// List returns a paginated list of boards and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Board], error)

	// Delete removes a board by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

package postgres

import (
	"context"
	"database/sql"

	"convertapi/internal/model"
	"convertapi/internal/repository"
)

// BoardPostgres is a PostgreSQL implementation of repository.BoardRepository.
type BoardPostgres struct {
	db *sql.DB
}

// NewBoardPostgres creates a new BoardPostgres repository.
func NewBoardPostgres(db *sql.DB) *BoardPostgres {
	return &BoardPostgres{db: db}
}

var _ repository.BoardRepository = (*BoardPostgres)(nil)

// Save upserts the board row keyed by ID and returns the stored record.
func (r *BoardPostgres) Save(ctx context.Context, b *model.Board) (*model.Board, error) {
	const q = `
		INSERT INTO boards (id, name, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING id, name, data, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.Name,
		b.Data,
		b.CreatedAt,
		b.UpdatedAt,
	)
	var out model.Board
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.Data,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single board by its ID.
func (r *BoardPostgres) FindByID(ctx context.Context, id string) (*model.Board, error) {
	const q = `
		SELECT id, name, data, created_at, updated_at
		FROM boards
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var b model.Board
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Data,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns boards using LIMIT/OFFSET pagination and a total count.
func (r *BoardPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Board], error) {
	const qCount = `SELECT COUNT(*) FROM boards`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, data, created_at, updated_at
		FROM boards
		ORDER BY updated_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Board, 0)
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Data,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Board]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a board by ID. It does not return an error if the row does not exist.
func (r *BoardPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM boards WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

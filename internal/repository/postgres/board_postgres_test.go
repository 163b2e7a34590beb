package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"convertapi/internal/model"
	"convertapi/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestBoardPostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBoardPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	b := &model.Board{
		ID:        "board-1",
		Name:      "sprint planning",
		Data:      "H4sIAAAA",
		CreatedAt: now,
		UpdatedAt: now,
	}

	rows := sqlmock.NewRows([]string{"id", "name", "data", "created_at", "updated_at"}).
		AddRow(b.ID, b.Name, b.Data, b.CreatedAt, b.UpdatedAt)

	mock.ExpectQuery("INSERT INTO boards").
		WithArgs(b.ID, b.Name, b.Data, b.CreatedAt, b.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Save(ctx, b)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, b.ID, result.ID)
	assert.Equal(t, b.Data, result.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBoardPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "data", "created_at", "updated_at"}).
			AddRow("board-1", "retro", "H4sIAAAA", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM boards WHERE id = ?").
			WithArgs("board-1").
			WillReturnRows(rows)

		b, err := repo.FindByID(ctx, "board-1")

		assert.NoError(t, err)
		assert.NotNil(t, b)
		assert.Equal(t, "board-1", b.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM boards WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		b, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, b)
	})
}

func TestBoardPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBoardPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM boards").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "name", "data", "created_at", "updated_at"}).
		AddRow("board-1", "retro", "H4sIAAAA", time.Now(), time.Now()).
		AddRow("board-2", "standup", "H4sIAAAB", time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM boards ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
}

func TestBoardPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBoardPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM boards WHERE id = ?").
		WithArgs("board-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "board-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

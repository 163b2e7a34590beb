package mocks

import (
	"context"

	"convertapi/internal/model"
	"convertapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) Save(ctx context.Context, b *model.Board) (*model.Board, error) {
	args := m.Called(ctx, b)
	var out *model.Board
	if v := args.Get(0); v != nil {
		out = v.(*model.Board)
	}
	return out, args.Error(1)
}

func (m *MockBoardRepository) FindByID(ctx context.Context, id string) (*model.Board, error) {
	args := m.Called(ctx, id)
	var out *model.Board
	if v := args.Get(0); v != nil {
		out = v.(*model.Board)
	}
	return out, args.Error(1)
}

func (m *MockBoardRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Board], error) {
	args := m.Called(ctx, pq)
	var out *repository.PageResult[model.Board]
	if v := args.Get(0); v != nil {
		out = v.(*repository.PageResult[model.Board])
	}
	return out, args.Error(1)
}

func (m *MockBoardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

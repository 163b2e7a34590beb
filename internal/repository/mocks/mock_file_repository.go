package mocks

import (
	"context"

	"convertapi/internal/model"
	"convertapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.UploadedFile) (*model.UploadedFile, error) {
	args := m.Called(ctx, f)
	var out *model.UploadedFile
	if v := args.Get(0); v != nil {
		out = v.(*model.UploadedFile)
	}
	return out, args.Error(1)
}

func (m *MockFileRepository) FindByID(ctx context.Context, id string) (*model.UploadedFile, error) {
	args := m.Called(ctx, id)
	var out *model.UploadedFile
	if v := args.Get(0); v != nil {
		out = v.(*model.UploadedFile)
	}
	return out, args.Error(1)
}

func (m *MockFileRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.UploadedFile], error) {
	args := m.Called(ctx, pq)
	var out *repository.PageResult[model.UploadedFile]
	if v := args.Get(0); v != nil {
		out = v.(*repository.PageResult[model.UploadedFile])
	}
	return out, args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

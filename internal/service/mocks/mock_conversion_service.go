package mocks

import (
	"context"
	"io"

	"convertapi/internal/model"
	"convertapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadedFile, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedFile), args.Error(1)
}

func (m *MockConversionService) List(ctx context.Context, limit, offset int) (*service.FileListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FileListResult), args.Error(1)
}

func (m *MockConversionService) Get(ctx context.Context, id string) (*model.UploadedFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UploadedFile), args.Error(1)
}

func (m *MockConversionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConversionService) Targets(ctx context.Context, id string) (*service.TargetsResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TargetsResult), args.Error(1)
}

func (m *MockConversionService) Convert(ctx context.Context, id, target string) (*model.ConversionJob, error) {
	args := m.Called(ctx, id, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionJob), args.Error(1)
}

func (m *MockConversionService) Job(ctx context.Context, id string) (*model.ConversionJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConversionJob), args.Error(1)
}

func (m *MockConversionService) Result(ctx context.Context, id string) (io.ReadCloser, *model.ConversionResult, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	var res *model.ConversionResult
	if v := args.Get(1); v != nil {
		res = v.(*model.ConversionResult)
	}
	return rc, res, args.Error(2)
}

func (m *MockConversionService) Export(ctx context.Context, id, filename string) (string, error) {
	args := m.Called(ctx, id, filename)
	return args.String(0), args.Error(1)
}

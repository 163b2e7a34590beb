package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"convertapi/internal/convert"
	"convertapi/internal/format"
	"convertapi/internal/model"
	repoMocks "convertapi/internal/repository/mocks"
	"convertapi/internal/storage"
	storeMocks "convertapi/internal/storage/mocks"
)

type convFixture struct {
	store    *storeMocks.MockStorage
	repo     *repoMocks.MockFileRepository
	registry *convert.Registry
	jobs     *JobTracker
	svc      ConversionService
}

func newConvFixture(t *testing.T, register func(r *convert.Registry)) *convFixture {
	t.Helper()
	f := &convFixture{
		store:    new(storeMocks.MockStorage),
		repo:     new(repoMocks.MockFileRepository),
		registry: convert.NewRegistry(),
		jobs:     NewJobTracker(time.Hour),
	}
	if register != nil {
		register(f.registry)
	}
	f.svc = NewConversionService(
		f.store, f.repo, format.NewDefaultResolver(), f.registry, f.jobs,
		15*time.Minute, zerolog.Nop(),
	)
	return f
}

func pngFile(id string) *model.UploadedFile {
	return &model.UploadedFile{
		ID:          id,
		Filename:    "photo.png",
		StoragePath: "uploads/" + id + ".png",
		Size:        4,
		ContentType: format.MIMEPNG,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestConversionService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newConvFixture(t, nil)
		r := strings.NewReader("hello world")

		f.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, ".txt")
		}), r, storage.PutObjectOptions{
			Size:        11,
			ContentType: "text/plain",
			Metadata:    map[string]string{"original-filename": "notes.txt"},
		}).Return(storage.ObjectInfo{
			Key:         "uploads/uuid.txt",
			Size:        11,
			ContentType: "text/plain",
		}, nil)

		f.repo.On("Create", ctx, mock.MatchedBy(func(uf *model.UploadedFile) bool {
			return uf.Filename == "notes.txt" && uf.StoragePath == "uploads/uuid.txt"
		})).Return(&model.UploadedFile{ID: "gen-id", ContentType: "text/plain"}, nil)

		stored, err := f.svc.Upload(ctx, r, "notes.txt", "text/plain", 11)

		require.NoError(t, err)
		assert.Equal(t, "gen-id", stored.ID)
		assert.Empty(t, stored.PreviewURL)
		f.store.AssertExpectations(t)
		f.repo.AssertExpectations(t)
	})

	t.Run("image upload gets preview url", func(t *testing.T) {
		f := newConvFixture(t, nil)
		r := bytes.NewReader([]byte{1, 2, 3, 4})

		f.store.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{Key: "uploads/uuid.png", Size: 4}, nil)
		f.repo.On("Create", ctx, mock.Anything).
			Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, "uploads/f1.png", 15*time.Minute).
			Return("https://minio/preview", nil)

		stored, err := f.svc.Upload(ctx, r, "photo.png", format.MIMEPNG, 4)

		require.NoError(t, err)
		assert.Equal(t, "https://minio/preview", stored.PreviewURL)
	})

	t.Run("nil reader", func(t *testing.T) {
		f := newConvFixture(t, nil)
		_, err := f.svc.Upload(ctx, nil, "x.txt", "text/plain", 0)
		assert.ErrorIs(t, err, ErrReaderNil)
	})

	t.Run("repository error rolls back storage", func(t *testing.T) {
		f := newConvFixture(t, nil)
		r := strings.NewReader("hello")

		f.store.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		f.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		f.store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Upload(ctx, r, "x.txt", "text/plain", 5)

		assert.ErrorContains(t, err, "db save failed: db fail")
		f.store.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestConversionService_Targets(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture(t, nil)

	f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
	f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)

	res, err := f.svc.Targets(ctx, "f1")

	require.NoError(t, err)
	assert.Equal(t, format.MIMEPNG, res.Source)
	require.NotEmpty(t, res.Targets)
	// PNG's preselected default target is JPEG.
	assert.Equal(t, format.MIMEJPEG, res.Default)
	assert.Equal(t, format.MIMEJPEG, res.Targets[0].MIME)
}

func TestConversionService_Convert(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path png to jpeg", func(t *testing.T) {
		f := newConvFixture(t, func(r *convert.Registry) {
			r.Register(format.MIMEPNG, format.MIMEJPEG,
				convert.ConverterFunc(func(ctx context.Context, in convert.Input) (*convert.Result, error) {
					return &convert.Result{Data: []byte("JPEGDATA"), MIME: format.MIMEJPEG}, nil
				}))
		})

		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)
		f.store.On("Get", ctx, "uploads/f1.png").
			Return(io.NopCloser(bytes.NewReader([]byte{1, 2, 3, 4})), storage.ObjectInfo{}, nil)
		f.store.On("Put", ctx, "results/f1.jpeg", mock.Anything, storage.PutObjectOptions{
			Size:        8,
			ContentType: format.MIMEJPEG,
		}).Return(storage.ObjectInfo{Key: "results/f1.jpeg", Size: 8}, nil)

		job, err := f.svc.Convert(ctx, "f1", format.MIMEJPEG)

		require.NoError(t, err)
		assert.Equal(t, model.StatusDone, job.Status)
		require.NotNil(t, job.Result)
		assert.Equal(t, format.MIMEJPEG, job.Result.Format)
		assert.Equal(t, "results/f1.jpeg", job.Result.StoragePath)
		f.store.AssertExpectations(t)
	})

	t.Run("unsupported target rejected before job mutation", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)

		_, err := f.svc.Convert(ctx, "f1", format.MIMEDOCX)

		assert.ErrorIs(t, err, ErrUnsupportedTarget)
		assert.Equal(t, model.StatusIdle, f.jobs.Get("f1").Status)
		f.store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unsupported sentinel rejected the same way", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)

		_, err := f.svc.Convert(ctx, "f1", format.TargetUnsupported)
		assert.ErrorIs(t, err, ErrUnsupportedTarget)
		assert.Equal(t, model.StatusIdle, f.jobs.Get("f1").Status)
	})

	t.Run("second conversion while in flight", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)
		require.NoError(t, f.jobs.Begin("f1", format.MIMEJPEG))

		_, err := f.svc.Convert(ctx, "f1", format.MIMEJPEG)
		assert.ErrorIs(t, err, ErrConversionInFlight)
	})

	t.Run("converter failure then successful retry", func(t *testing.T) {
		calls := 0
		f := newConvFixture(t, func(r *convert.Registry) {
			r.Register(format.MIMEPNG, format.MIMEJPEG,
				convert.ConverterFunc(func(ctx context.Context, in convert.Input) (*convert.Result, error) {
					calls++
					if calls == 1 {
						return nil, errors.New("decode failed")
					}
					return &convert.Result{Data: []byte("OK"), MIME: format.MIMEJPEG}, nil
				}))
		})

		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)
		f.store.On("Get", ctx, "uploads/f1.png").
			Return(func(ctx context.Context, key string) io.ReadCloser {
				return io.NopCloser(bytes.NewReader([]byte{1}))
			}, storage.ObjectInfo{}, nil)
		f.store.On("Put", ctx, "results/f1.jpeg", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "results/f1.jpeg", Size: 2}, nil)

		job, err := f.svc.Convert(ctx, "f1", format.MIMEJPEG)
		require.NoError(t, err)
		assert.Equal(t, model.StatusError, job.Status)
		assert.Contains(t, job.Error, "decode failed")
		assert.Nil(t, job.Result)

		// The error state re-arms: retrying the same file works.
		job, err = f.svc.Convert(ctx, "f1", format.MIMEJPEG)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDone, job.Status)
	})

	t.Run("missing file", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "nope").Return(nil, sql.ErrNoRows)

		_, err := f.svc.Convert(ctx, "nope", format.MIMEJPEG)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConversionService_Result(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture(t, nil)

	f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
	f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)

	// No conversion yet.
	_, _, err := f.svc.Result(ctx, "f1")
	assert.ErrorIs(t, err, ErrNoResult)

	require.NoError(t, f.jobs.Begin("f1", format.MIMEJPEG))
	f.jobs.Complete("f1", &model.ConversionResult{
		Format: format.MIMEJPEG, StoragePath: "results/f1.jpeg", Size: 2,
	})
	f.store.On("Get", ctx, "results/f1.jpeg").
		Return(io.NopCloser(strings.NewReader("OK")), storage.ObjectInfo{}, nil)

	rc, res, err := f.svc.Result(ctx, "f1")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, format.MIMEJPEG, res.Format)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(data))
}

func TestConversionService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("presigns with derived extension", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)
		require.NoError(t, f.jobs.Begin("f1", format.MIMEPDF))
		f.jobs.Complete("f1", &model.ConversionResult{
			Format: format.MIMEPDF, StoragePath: "results/f1.pdf", Size: 9,
		})

		f.store.On("PresignDownload", ctx, "results/f1.pdf", 15*time.Minute, "report.pdf").
			Return("https://minio/download", nil)

		// Path components in the user-supplied name are stripped.
		u, err := f.svc.Export(ctx, "f1", " ../report ")
		require.NoError(t, err)
		assert.Equal(t, "https://minio/download", u)
		f.store.AssertExpectations(t)
	})

	t.Run("empty filename", func(t *testing.T) {
		f := newConvFixture(t, nil)
		_, err := f.svc.Export(ctx, "f1", "   ")
		assert.ErrorIs(t, err, ErrFilenameRequired)
	})

	t.Run("no result yet", func(t *testing.T) {
		f := newConvFixture(t, nil)
		f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
		f.store.On("PresignGet", ctx, mock.Anything, mock.Anything).Return("u", nil)

		_, err := f.svc.Export(ctx, "f1", "report")
		assert.ErrorIs(t, err, ErrNoResult)
	})
}

func TestConversionService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newConvFixture(t, nil)

	f.repo.On("FindByID", ctx, "f1").Return(pngFile("f1"), nil)
	require.NoError(t, f.jobs.Begin("f1", format.MIMEJPEG))
	f.jobs.Complete("f1", &model.ConversionResult{
		Format: format.MIMEJPEG, StoragePath: "results/f1.jpeg", Size: 2,
	})

	f.store.On("Delete", ctx, "results/f1.jpeg").Return(nil)
	f.store.On("Delete", ctx, "uploads/f1.png").Return(nil)
	f.repo.On("Delete", ctx, "f1").Return(nil)

	require.NoError(t, f.svc.Delete(ctx, "f1"))
	assert.Equal(t, model.StatusIdle, f.jobs.Get("f1").Status)
	f.store.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"convertapi/internal/convert"
	"convertapi/internal/format"
	"convertapi/internal/model"
	"convertapi/internal/repository"
	"convertapi/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("file not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrUnsupportedTarget = errors.New("target format not supported for this source")
	ErrNoResult          = errors.New("no conversion result available")
	ErrFilenameRequired  = errors.New("filename is required")
)

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Items []model.UploadedFile `json:"data"`
	Total int                  `json:"total"`
}

// TargetsResult carries the legal targets for a file plus the preselected
// default (the first entry, or the unsupported sentinel when the list is
// empty).
type TargetsResult struct {
	Source  string          `json:"source"`
	Targets []format.Target `json:"targets"`
	Default string          `json:"default"`
}

// ConversionService defines the use cases of the conversion pipeline: intake,
// target resolution, dispatch, result retrieval and export.
type ConversionService interface {
	// Upload stores the content in object storage and saves metadata to DB,
	// rolling back storage if the DB save fails. Image uploads get a
	// time-limited preview URL.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadedFile, error)

	// List returns files using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*FileListResult, error)

	// Get returns a single file by its ID.
	Get(ctx context.Context, id string) (*model.UploadedFile, error)

	// Delete removes a file, its stored result and its job state.
	Delete(ctx context.Context, id string) error

	// Targets returns the legal target formats for the file's source type.
	Targets(ctx context.Context, id string) (*TargetsResult, error)

	// Convert runs the file through the converter for (source, target) and
	// stores the result. The target must be in the file's resolver targets;
	// an unsupported target is rejected before the job is touched.
	Convert(ctx context.Context, id, target string) (*model.ConversionJob, error)

	// Job returns the file's current conversion job state.
	Job(ctx context.Context, id string) (*model.ConversionJob, error)

	// Result streams the stored conversion result.
	Result(ctx context.Context, id string) (io.ReadCloser, *model.ConversionResult, error)

	// Export returns a presigned download URL for the result under the given
	// filename, extension derived from the result format.
	Export(ctx context.Context, id, filename string) (string, error)
}

// conversionService is the concrete implementation of ConversionService.
type conversionService struct {
	store      storage.Storage
	repo       repository.FileRepository
	resolver   *format.Resolver
	registry   *convert.Registry
	jobs       *JobTracker
	presignTTL time.Duration
	log        zerolog.Logger
}

// NewConversionService constructs a ConversionService.
func NewConversionService(
	store storage.Storage,
	repo repository.FileRepository,
	resolver *format.Resolver,
	registry *convert.Registry,
	jobs *JobTracker,
	presignTTL time.Duration,
	log zerolog.Logger,
) ConversionService {
	return &conversionService{
		store:      store,
		repo:       repo,
		resolver:   resolver,
		registry:   registry,
		jobs:       jobs,
		presignTTL: presignTTL,
		log:        log,
	}
}

func (s *conversionService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.UploadedFile, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// Generate storage name using UUID + extension
	ext := filepath.Ext(originalFilename)
	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("uploads", id+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	f := &model.UploadedFile{
		ID:          id,
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, f)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.attachPreview(ctx, stored)
	return stored, nil
}

// attachPreview populates a presigned preview URL for image sources. The URL
// expires on its own; the object's lifetime is the file's lifetime.
func (s *conversionService) attachPreview(ctx context.Context, f *model.UploadedFile) {
	if !f.IsImage() {
		return
	}
	u, err := s.store.PresignGet(ctx, f.StoragePath, s.presignTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("file_id", f.ID).Msg("presign preview failed")
		return
	}
	f.PreviewURL = u
}

func (s *conversionService) List(ctx context.Context, limit, offset int) (*FileListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		s.attachPreview(ctx, &res.Items[i])
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *conversionService) Get(ctx context.Context, id string) (*model.UploadedFile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.attachPreview(ctx, f)
	return f, nil
}

func (s *conversionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Remove the stored result first, if any, so a half-failed delete never
	// orphans an unreachable result blob.
	if job := s.jobs.Get(id); job.Result != nil {
		if err := s.store.Delete(ctx, job.Result.StoragePath); err != nil {
			return fmt.Errorf("delete result: %w", err)
		}
	}
	if err := s.store.Delete(ctx, f.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	s.jobs.Remove(id)
	return s.repo.Delete(ctx, id)
}

func (s *conversionService) Targets(ctx context.Context, id string) (*TargetsResult, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	targets := s.resolver.TargetsFor(f.ContentType)
	return &TargetsResult{
		Source:  f.ContentType,
		Targets: targets,
		Default: s.resolver.DefaultTarget(f.ContentType),
	}, nil
}

func (s *conversionService) Convert(ctx context.Context, id, target string) (*model.ConversionJob, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Reject unsupported targets before the job is touched: the job keeps its
	// pre-call status.
	if !s.resolver.Supported(f.ContentType, target) {
		return nil, ErrUnsupportedTarget
	}

	if err := s.jobs.Begin(id, target); err != nil {
		return nil, err
	}

	result, err := s.runConversion(ctx, f, target)
	if err != nil {
		s.jobs.Fail(id, err)
		s.log.Error().Err(err).
			Str("file_id", id).
			Str("source", f.ContentType).
			Str("target", target).
			Msg("conversion failed")
		job := s.jobs.Get(id)
		return &job, nil
	}

	s.jobs.Complete(id, result)
	s.log.Info().
		Str("file_id", id).
		Str("source", f.ContentType).
		Str("target", target).
		Int64("size", result.Size).
		Msg("conversion done")
	job := s.jobs.Get(id)
	return &job, nil
}

// runConversion reads the upload, dispatches the converter and stores the
// produced blob. Nothing is stored unless the converter succeeded.
func (s *conversionService) runConversion(ctx context.Context, f *model.UploadedFile, target string) (*model.ConversionResult, error) {
	rc, _, err := s.store.Get(ctx, f.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	out, err := s.registry.Convert(ctx, convert.Input{
		Data:     data,
		Source:   f.ContentType,
		Target:   target,
		Filename: f.Filename,
	})
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("results/%s.%s", f.ID, s.resolver.ExtensionFor(out.MIME))
	info, err := s.store.Put(ctx, key, bytes.NewReader(out.Data), storage.PutObjectOptions{
		Size:        int64(len(out.Data)),
		ContentType: out.MIME,
	})
	if err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}

	return &model.ConversionResult{
		Format:      out.MIME,
		StoragePath: info.Key,
		Size:        info.Size,
	}, nil
}

func (s *conversionService) Job(ctx context.Context, id string) (*model.ConversionJob, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	job := s.jobs.Get(id)
	return &job, nil
}

func (s *conversionService) Result(ctx context.Context, id string) (io.ReadCloser, *model.ConversionResult, error) {
	job, err := s.Job(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != model.StatusDone || job.Result == nil {
		return nil, nil, ErrNoResult
	}
	rc, _, err := s.store.Get(ctx, job.Result.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read result: %w", err)
	}
	return rc, job.Result, nil
}

func (s *conversionService) Export(ctx context.Context, id, filename string) (string, error) {
	filename = sanitizeFilename(filename)
	if filename == "" {
		return "", ErrFilenameRequired
	}
	job, err := s.Job(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status != model.StatusDone || job.Result == nil {
		return "", ErrNoResult
	}

	full := filename + "." + s.resolver.ExtensionFor(job.Result.Format)
	u, err := s.store.PresignDownload(ctx, job.Result.StoragePath, s.presignTTL, full)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

// sanitizeFilename strips path components and whitespace from a user-supplied
// export name.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	name = filepath.Base(name)
	name = strings.Trim(name, ".")
	if name == "/" || name == "\\" {
		return ""
	}
	return name
}

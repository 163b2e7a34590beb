package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"convertapi/internal/convert"
	"convertapi/internal/model"
	"convertapi/internal/repository"
	"convertapi/internal/whiteboard"
)

var (
	ErrBoardNotFound    = errors.New("board not found")
	ErrBoardDataInvalid = errors.New("board data is not a valid encoded snapshot")
)

// BoardListResult is the service-level DTO for paginated boards.
type BoardListResult struct {
	Items []model.Board `json:"data"`
	Total int           `json:"total"`
}

// BoardService defines the use cases for persisted whiteboards.
type BoardService interface {
	// Save upserts a board snapshot. The data blob must decode as a board
	// snapshot; invalid payloads are rejected so a corrupt blob can never
	// replace a good one.
	Save(ctx context.Context, id, name, data string) (*model.Board, error)

	// Get returns a board by its ID.
	Get(ctx context.Context, id string) (*model.Board, error)

	// List returns boards using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*BoardListResult, error)

	// Delete removes a board by ID.
	Delete(ctx context.Context, id string) error

	// ExportPNG renders the board's elements to a PNG image.
	ExportPNG(ctx context.Context, id string) ([]byte, error)
}

// boardService is the concrete implementation of BoardService.
type boardService struct {
	repo         repository.BoardRepository
	surfaces     *convert.SurfacePool
	exportWidth  int
	exportHeight int
	log          zerolog.Logger
}

// NewBoardService constructs a BoardService.
func NewBoardService(repo repository.BoardRepository, surfaces *convert.SurfacePool, exportWidth, exportHeight int, log zerolog.Logger) BoardService {
	return &boardService{
		repo:         repo,
		surfaces:     surfaces,
		exportWidth:  exportWidth,
		exportHeight: exportHeight,
		log:          log,
	}
}

func (s *boardService) Save(ctx context.Context, id, name, data string) (*model.Board, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if _, err := whiteboard.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoardDataInvalid, err)
	}

	now := time.Now().UTC()
	stored, err := s.repo.Save(ctx, &model.Board{
		ID:        id,
		Name:      name,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("save board: %w", err)
	}
	return stored, nil
}

func (s *boardService) Get(ctx context.Context, id string) (*model.Board, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *boardService) List(ctx context.Context, limit, offset int) (*BoardListResult, error) {
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
	return &BoardListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *boardService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *boardService) ExportPNG(ctx context.Context, id string) ([]byte, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	elements, err := whiteboard.Decode(b.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBoardDataInvalid, err)
	}
	return whiteboard.RenderPNG(ctx, s.surfaces, elements, s.exportWidth, s.exportHeight)
}

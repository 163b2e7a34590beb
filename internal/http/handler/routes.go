package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"convertapi/internal/service"
)

// RegisterRoutes attaches the HTTP routes to the provided Fiber app.
// Handlers stay minimal: parse, call the service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, convSvc service.ConversionService, boardSvc service.BoardService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/files", ListFiles(convSvc))
	app.Post("/files", UploadFile(convSvc))
	app.Get("/files/:id", GetFile(convSvc))
	app.Delete("/files/:id", DeleteFile(convSvc))
	app.Get("/files/:id/targets", FileTargets(convSvc))
	app.Post("/files/:id/convert", ConvertFile(convSvc))
	app.Get("/files/:id/job", JobStatus(convSvc))
	app.Get("/files/:id/result", DownloadResult(convSvc))
	app.Post("/files/:id/export", ExportResult(convSvc))

	app.Get("/boards", ListBoards(boardSvc))
	app.Get("/boards/:id", GetBoard(boardSvc))
	app.Put("/boards/:id", SaveBoard(boardSvc))
	app.Delete("/boards/:id", DeleteBoard(boardSvc))
	app.Get("/boards/:id/png", BoardPNG(boardSvc))
}

// HealthCheck reports readiness: it checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

func parsePage(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

func parseFileID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// ListFiles lists the intake batch with limit & offset.
func ListFiles(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadFile accepts a multipart upload (field name: file).
func UploadFile(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		uf, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(uf)
	}
}

// GetFile returns one file's metadata (with a preview URL for images).
func GetFile(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		uf, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(uf)
	}
}

// DeleteFile removes a file, its result and its job state.
func DeleteFile(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FileTargets returns the legal target formats for the file's source type.
// An empty list means the source type is unsupported.
func FileTargets(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		res, err := svc.Targets(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

type convertRequest struct {
	Target string `json:"target"`
}

// ConvertFile runs a conversion to the requested target. The response carries
// the resulting job; a failed conversion reports status "error" in the job
// rather than an HTTP error.
func ConvertFile(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		var req convertRequest
		if err := c.BodyParser(&req); err != nil || req.Target == "" {
			return writeError(c, fiber.StatusBadRequest, "TARGET_REQUIRED", "target format is required")
		}

		job, err := svc.Convert(c.UserContext(), id, req.Target)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			case errors.Is(err, service.ErrUnsupportedTarget):
				return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_TARGET", "target format not supported for this source")
			case errors.Is(err, service.ErrConversionInFlight):
				return writeError(c, fiber.StatusConflict, "CONVERSION_IN_FLIGHT", "a conversion is already running for this file")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(job)
	}
}

// JobStatus returns the file's current conversion job state.
func JobStatus(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		job, err := svc.Job(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(job)
	}
}

// DownloadResult streams the stored conversion result.
func DownloadResult(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		rc, res, err := svc.Result(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			case errors.Is(err, service.ErrNoResult):
				return writeError(c, fiber.StatusNotFound, "NO_RESULT", "no conversion result available")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Set(fiber.HeaderContentType, res.Format)
		return c.SendStream(rc, int(res.Size))
	}
}

type exportRequest struct {
	Filename string `json:"filename"`
}

type exportResponse struct {
	URL string `json:"url"`
}

// ExportResult presigns a download of the result under a user-chosen filename;
// the extension is derived from the result format, never from the client.
func ExportResult(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseFileID(c)
		if err != nil {
			return err
		}
		var req exportRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILENAME_REQUIRED", "filename is required")
		}

		u, err := svc.Export(c.UserContext(), id, req.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFilenameRequired):
				return writeError(c, fiber.StatusBadRequest, "FILENAME_REQUIRED", "filename is required")
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			case errors.Is(err, service.ErrNoResult):
				return writeError(c, fiber.StatusNotFound, "NO_RESULT", "no conversion result available")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(exportResponse{URL: u})
	}
}

// ListBoards lists persisted whiteboards with limit & offset.
func ListBoards(svc service.BoardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := parsePage(c)
		if err != nil {
			return err
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetBoard returns a board with its encoded snapshot.
func GetBoard(svc service.BoardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrBoardNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "board not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(b)
	}
}

type saveBoardRequest struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// SaveBoard upserts a board snapshot.
func SaveBoard(svc service.BoardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveBoardRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		b, err := svc.Save(c.UserContext(), c.Params("id"), req.Name, req.Data)
		if err != nil {
			if errors.Is(err, service.ErrBoardDataInvalid) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BOARD_DATA", "board data is not a valid snapshot")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(b)
	}
}

// DeleteBoard removes a board.
func DeleteBoard(svc service.BoardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			if errors.Is(err, service.ErrBoardNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "board not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// BoardPNG renders the board to a PNG image.
func BoardPNG(svc service.BoardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := svc.ExportPNG(c.UserContext(), c.Params("id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrBoardNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "board not found")
			case errors.Is(err, service.ErrBoardDataInvalid):
				return writeError(c, fiber.StatusUnprocessableEntity, "INVALID_BOARD_DATA", "board data is not a valid snapshot")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(data)
	}
}

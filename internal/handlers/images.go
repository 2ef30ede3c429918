package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapstage/snapstage/internal/imaging"
)

// ImagesHandler exposes the ingestion pipeline over HTTP, as an alternate
// input boundary next to the chat bot.
type ImagesHandler struct {
	pipeline *imaging.Pipeline
	logger   *slog.Logger
}

func NewImagesHandler(log *slog.Logger, pipeline *imaging.Pipeline) *ImagesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ImagesHandler{
		pipeline: pipeline,
		logger:   log.With(slog.String("handler", "images")),
	}
}

func (h *ImagesHandler) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/images", h.Ingest)
	api.POST("/images/cleanup", h.Cleanup)
}

type ingestRejection struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}

// Ingest accepts an image as a multipart "image" part or as the raw
// request body, with an optional caption form/query value, and returns the
// processed result.
func (h *ImagesHandler) Ingest(c echo.Context) error {
	data, err := h.readImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caption := imaging.NewCaption(h.readCaption(c))

	result, err := h.pipeline.Process(c.Request().Context(), data, caption)
	if err != nil {
		if errors.Is(err, imaging.ErrRejected) {
			reason := strings.TrimPrefix(err.Error(), imaging.ErrRejected.Error()+": ")
			return c.JSON(http.StatusUnprocessableEntity, ingestRejection{Reason: reason})
		}
		h.logger.Error("ingest failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "image staging failed")
	}

	return c.JSON(http.StatusCreated, result)
}

type cleanupRequest struct {
	StagedPath string `json:"staged_path"`
}

type cleanupResponse struct {
	Removed bool `json:"removed"`
}

// Cleanup releases a staged file. Paths outside the managed root are
// refused and reported as removed=false; cleanup is best-effort and never
// errors.
func (h *ImagesHandler) Cleanup(c echo.Context) error {
	var req cleanupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.StagedPath) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "staged_path is required")
	}
	return c.JSON(http.StatusOK, cleanupResponse{Removed: h.pipeline.Cleanup(req.StagedPath)})
}

// readImage pulls the payload from the multipart "image" part when
// present, otherwise from the raw body. Reads are capped just above the
// validation limit so an oversized upload is rejected with a reason
// instead of buffering without bound.
func (h *ImagesHandler) readImage(c echo.Context) ([]byte, error) {
	const capBytes = imaging.MaxImageBytes + 1

	if file, err := c.FormFile("image"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, errors.New("open image part failed")
		}
		defer func() {
			_ = src.Close()
		}()
		return io.ReadAll(io.LimitReader(src, capBytes))
	}

	body := c.Request().Body
	if body == nil {
		return nil, errors.New("image payload is required")
	}
	data, err := io.ReadAll(io.LimitReader(body, capBytes))
	if err != nil {
		return nil, errors.New("read image payload failed")
	}
	if len(data) == 0 {
		return nil, errors.New("image payload is required")
	}
	return data, nil
}

func (h *ImagesHandler) readCaption(c echo.Context) string {
	if v := c.FormValue("caption"); strings.TrimSpace(v) != "" {
		return v
	}
	return c.QueryParam("caption")
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironsheep/shelf-occupancy/internal/config"
	"github.com/ironsheep/shelf-occupancy/internal/imaging"
	"github.com/ironsheep/shelf-occupancy/internal/occupancy"
	"github.com/ironsheep/shelf-occupancy/internal/planogram"
)

// ProcessRequest is the body of POST /process-shelf-image.
type ProcessRequest struct {
	// ImagePath locates the image, e.g. "/uploads/1700000000.jpg".
	ImagePath string `json:"imagePath"`

	// ShelfID overrides the configured shelf id when set.
	ShelfID string `json:"shelfId,omitempty"`
}

// ProcessResponse is the occupancy report for one image. Slot numbers are
// 1-based. Product lists are present only when a planogram covers the shelf.
type ProcessResponse struct {
	ShelfID             string `json:"shelf_id"`
	TotalSlots          int    `json:"total_slots"`
	OccupiedSlots       int    `json:"occupied_slots"`
	EmptySlots          int    `json:"empty_slots"`
	OccupiedSlotNumbers []int  `json:"occupied_slot_numbers"`
	EmptySlotNumbers    []int  `json:"empty_slot_numbers"`

	*planogram.Availability
}

// Handler serves the shelf endpoints.
type Handler struct {
	cfg       *config.Config
	planogram *planogram.Planogram
	logger    *slog.Logger
}

// NewHandler creates a handler. plan may be nil.
func NewHandler(cfg *config.Config, plan *planogram.Planogram, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		planogram: plan,
		logger:    logger,
	}
}

// RegisterRoutes attaches the handler's routes to e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/process-shelf-image", h.ProcessShelfImage)
}

// Health always reports ok.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ProcessShelfImage classifies the slots of the requested image.
func (h *Handler) ProcessShelfImage(c echo.Context) error {
	var req ProcessRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	if req.ImagePath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "imagePath required")
	}

	// Uploaders send server-style paths such as /uploads/x.jpg.
	rel := strings.TrimPrefix(req.ImagePath, "/")
	resolved := filepath.Join(h.cfg.WorkDir, rel)
	if rel == "" || !imaging.FileExists(resolved) {
		return echo.NewHTTPError(http.StatusNotFound, "Image not found: "+rel)
	}

	result, _, err := occupancy.AnalyzeFile(resolved, h.cfg.Occupancy)
	if err != nil {
		if errors.Is(err, occupancy.ErrImageTooNarrow) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("failed to process image: %v", err)).SetInternal(err)
	}

	shelfID := req.ShelfID
	if shelfID == "" {
		shelfID = h.cfg.ShelfID
	}

	resp := ProcessResponse{
		ShelfID:             shelfID,
		TotalSlots:          result.TotalSlots,
		OccupiedSlots:       result.OccupiedCount(),
		EmptySlots:          result.EmptyCount(),
		OccupiedSlotNumbers: result.OccupiedNumbers(),
		EmptySlotNumbers:    result.EmptyNumbers(),
	}

	if h.planogram.Has(shelfID) {
		availability, err := h.planogram.Map(shelfID, resp.OccupiedSlotNumbers, resp.EmptySlotNumbers)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
		}
		resp.Availability = availability
	}

	h.logger.Debug("processed shelf image",
		"path", rel,
		"shelf_id", shelfID,
		"occupied", resp.OccupiedSlots,
		"empty", resp.EmptySlots,
	)

	return c.JSON(http.StatusOK, resp)
}

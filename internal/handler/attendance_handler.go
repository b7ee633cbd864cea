package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/observability"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// AttendanceHandler wires the attendance report endpoints.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches attendance routes to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Get("", h.report)
	router.Get("/export", h.export)
}

func (h *AttendanceHandler) parseRequest(c *fiber.Ctx) dto.AttendanceListRequest {
	return dto.AttendanceListRequest{
		Level:      c.Query("level"),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
		Descending: parseQueryBool(c, "desc"),
	}
}

func (h *AttendanceHandler) report(c *fiber.Ctx) error {
	response, err := h.service.Report(c.Context(), h.parseRequest(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build attendance report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build attendance report")
	}

	return utils.SendSuccess(c, "attendance report retrieved", response)
}

func (h *AttendanceHandler) export(c *fiber.Ctx) error {
	data, err := h.service.ExportExcel(c.Context(), h.parseRequest(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export attendance report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export attendance report")
	}

	observability.Exports().WithLabelValues("xlsx").Inc()
	return utils.SendDownload(c, utils.ContentTypeXLSX, "attendance.xlsx", data)
}

package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/observability"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// BulkHandler wires the spreadsheet reconciliation endpoints.
type BulkHandler struct {
	service     service.BulkService
	uploadLimit int64
	logger      zerolog.Logger
}

// NewBulkHandler constructs the handler. uploadMaxMB bounds accepted file
// sizes.
func NewBulkHandler(service service.BulkService, uploadMaxMB int, logger zerolog.Logger) *BulkHandler {
	return &BulkHandler{
		service:     service,
		uploadLimit: int64(uploadMaxMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "bulk_handler").Logger(),
	}
}

// Register attaches bulk routes to the router group. Profile uploads run
// through the profile guard, degree uploads through the degree guard.
func (h *BulkHandler) Register(router fiber.Router, profileEdit, degreeEdit fiber.Handler) {
	router.Post("/profiles", profileEdit, h.reconcileProfiles)
	router.Get("/degrees/template", degreeEdit, h.degreeTemplate)
	router.Post("/degrees/:term", degreeEdit, h.reconcileDegrees)
}

func (h *BulkHandler) openUpload(c *fiber.Ctx) (multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file field is required")
	}
	if h.uploadLimit > 0 && header.Size > h.uploadLimit {
		return nil, errors.New("file exceeds the upload limit")
	}
	file, err := header.Open()
	if err != nil {
		return nil, errors.New("could not read uploaded file")
	}
	return file, nil
}

func (h *BulkHandler) reconcileProfiles(c *fiber.Ctx) error {
	file, err := h.openUpload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	defer file.Close()

	result, err := h.service.ReconcileProfiles(c.Context(), file)
	if err != nil {
		return h.sendReconcileError(c, err, "profile reconciliation failed")
	}

	h.recordOutcome("profiles", result.SuccessCount, len(result.FailedCodes))
	return utils.SendSuccess(c, "profiles reconciled", result)
}

func (h *BulkHandler) reconcileDegrees(c *fiber.Ctx) error {
	term, err := models.ParseTerm(c.Params("term"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid term")
	}

	file, err := h.openUpload(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	defer file.Close()

	result, err := h.service.ReconcileDegrees(c.Context(), term, file)
	if err != nil {
		return h.sendReconcileError(c, err, "degree reconciliation failed")
	}

	h.recordOutcome("degrees", result.SuccessCount, len(result.FailedCodes))
	return utils.SendSuccess(c, "degrees reconciled", result)
}

func (h *BulkHandler) sendReconcileError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrEmptyFile):
		return utils.SendError(c, fiber.StatusBadRequest, "uploaded file has no data rows")
	case errors.Is(err, service.ErrMissingCodeColumn):
		return utils.SendError(c, fiber.StatusBadRequest, "uploaded file has no code column")
	case errors.Is(err, service.ErrReconciliationTransport):
		requestLogger(h.logger, c).Error().Err(err).Msg("reconciliation aborted by store failure")
		return utils.SendError(c, fiber.StatusBadGateway, "record store unavailable")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (h *BulkHandler) recordOutcome(kind string, success, failed int) {
	observability.ReconciliationRows().WithLabelValues(kind, "success").Add(float64(success))
	observability.ReconciliationRows().WithLabelValues(kind, "failed").Add(float64(failed))
	h.logger.Info().Str("kind", kind).Int("success", success).Int("failed", failed).Msg("reconciliation recorded")
}

func (h *BulkHandler) degreeTemplate(c *fiber.Ctx) error {
	data, err := h.service.DegreeTemplate()
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build degree template")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build degree template")
	}

	observability.Exports().WithLabelValues("xlsx").Inc()
	return utils.SendDownload(c, utils.ContentTypeXLSX, "degrees_template.xlsx", data)
}

package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/observability"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// IDCardHandler wires the identification card endpoints.
type IDCardHandler struct {
	service  service.IDCardService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewIDCardHandler constructs the handler.
func NewIDCardHandler(service service.IDCardService, validate *validator.Validate, logger zerolog.Logger) *IDCardHandler {
	return &IDCardHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "idcard_handler").Logger(),
	}
}

// Register attaches single-card routes to the student router group.
func (h *IDCardHandler) Register(router fiber.Router) {
	router.Get("/:code/card", h.render)
}

// RegisterBulk attaches the archive route to the cards router group.
func (h *IDCardHandler) RegisterBulk(router fiber.Router) {
	router.Post("", h.archive)
}

func (h *IDCardHandler) render(c *fiber.Ctx) error {
	opts := dto.IDCardOptions{
		Time:     c.Query("time"),
		Saint:    c.Query("saint"),
		Location: c.Query("location"),
	}

	png, err := h.service.Render(c.Context(), c.Params("code"), opts)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render card")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render card")
	}

	observability.Exports().WithLabelValues("png").Inc()
	return utils.SendDownload(c, utils.ContentTypePNG, c.Params("code")+".png", png)
}

func (h *IDCardHandler) archive(c *fiber.Ctx) error {
	var payload dto.BulkIDCardRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	archive, missing, err := h.service.Archive(c.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no matching students")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build card archive")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build card archive")
	}

	if len(missing) > 0 {
		c.Set("X-Missing-Codes", strings.Join(missing, ","))
	}

	observability.Exports().WithLabelValues("zip").Inc()
	return utils.SendDownload(c, utils.ContentTypeZIP, "cards.zip", archive)
}

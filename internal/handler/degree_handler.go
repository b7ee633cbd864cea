package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// DegreeHandler wires the per-student score endpoints.
type DegreeHandler struct {
	service  service.DegreeService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewDegreeHandler constructs the handler.
func NewDegreeHandler(service service.DegreeService, validate *validator.Validate, logger zerolog.Logger) *DegreeHandler {
	return &DegreeHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "degree_handler").Logger(),
	}
}

// Register attaches degree routes to the student router group. Score edits
// run through the edit guard.
func (h *DegreeHandler) Register(router fiber.Router, view, edit fiber.Handler) {
	router.Get("/:code/degrees", view, h.get)
	router.Patch("/:code/degrees", edit, h.update)
}

func (h *DegreeHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch degrees")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch degrees")
	}

	return utils.SendSuccess(c, "degrees retrieved", response)
}

func (h *DegreeHandler) update(c *fiber.Ctx) error {
	var payload dto.DegreeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Update(c.Context(), c.Params("code"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		case errors.Is(err, models.ErrInvalidTerm), errors.Is(err, models.ErrInvalidPath):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update degrees")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update degrees")
		}
	}

	return utils.SendSuccess(c, "degrees updated", response)
}

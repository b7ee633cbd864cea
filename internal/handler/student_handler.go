package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/observability"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// StudentHandler wires the student record endpoints for the main collection
// and the pending holding area.
type StudentHandler struct {
	students service.StudentService
	pending  service.StudentService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students, pending service.StudentService, validate *validator.Validate, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		pending:  pending,
		validate: validate,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student routes to the router group. Mutating routes run
// through the edit and delete guards.
func (h *StudentHandler) Register(router fiber.Router, edit, del fiber.Handler) {
	router.Get("", h.list)
	router.Get("/export", h.export)
	router.Post("", edit, h.create)
	router.Get("/:code", h.get)
	router.Patch("/:code", edit, h.update)
	router.Delete("/:code", del, h.delete)
}

// RegisterPending attaches the pending holding area routes.
func (h *StudentHandler) RegisterPending(router fiber.Router) {
	router.Get("", h.listPending)
	router.Get("/:code", h.getPending)
	router.Delete("/:code", h.deletePending)
	router.Post("/:code/approve", h.approve)
}

func (h *StudentHandler) parseListRequest(c *fiber.Ctx) (dto.StudentListRequest, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return dto.StudentListRequest{}, errors.New("invalid page")
	}
	if page <= 0 {
		page = 1
	}

	return dto.StudentListRequest{
		Page:       page,
		Search:     c.Query("search"),
		Levels:     splitAndTrim(c.Query("levels")),
		Sort:       c.Query("sort"),
		Descending: parseQueryBool(c, "desc"),
	}, nil
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	req, err := h.parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.students.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *StudentHandler) export(c *fiber.Ctx) error {
	req, err := h.parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	data, err := h.students.ExportExcel(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export students")
	}

	observability.Exports().WithLabelValues("xlsx").Inc()
	return utils.SendDownload(c, utils.ContentTypeXLSX, "students.xlsx", data)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.students.Create(c.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrStudentExists) {
			return utils.SendError(c, fiber.StatusConflict, "student already exists")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	student, err := h.students.Get(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	student, err := h.students.Update(c.Context(), c.Params("code"), payload)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := h.students.Delete(c.Context(), code); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete student")
	}

	requestLogger(h.logger, c).Info().Str("code", code).Str("operator", usernameFromContext(c)).Msg("student deleted")
	return utils.SendSuccess(c, "student deleted", fiber.Map{"code": code})
}

func (h *StudentHandler) listPending(c *fiber.Ctx) error {
	req, err := h.parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.pending.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list pending registrations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list pending registrations")
	}

	return utils.SendSuccess(c, "pending registrations retrieved", response)
}

func (h *StudentHandler) getPending(c *fiber.Ctx) error {
	student, err := h.pending.Get(c.Context(), c.Params("code"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "pending registration not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch pending registration")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch pending registration")
	}

	return utils.SendSuccess(c, "pending registration retrieved", student)
}

func (h *StudentHandler) deletePending(c *fiber.Ctx) error {
	code := c.Params("code")
	if err := h.pending.Delete(c.Context(), code); err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "pending registration not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reject pending registration")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reject pending registration")
	}

	return utils.SendSuccess(c, "pending registration rejected", fiber.Map{"code": code})
}

func (h *StudentHandler) approve(c *fiber.Ctx) error {
	student, err := h.pending.Promote(c.Context(), c.Params("code"), h.students)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "pending registration not found")
		case errors.Is(err, service.ErrStudentExists):
			return utils.SendError(c, fiber.StatusConflict, "student already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to approve pending registration")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to approve pending registration")
		}
	}

	return utils.SendSuccess(c, "pending registration approved", student)
}

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

// ContentHandler wires the reference collection endpoints. The collection
// name travels as a path parameter so one handler serves all four
// collections.
type ContentHandler struct {
	service     service.ContentService
	validate    *validator.Validate
	uploadLimit int64
	logger      zerolog.Logger
}

// NewContentHandler constructs the handler.
func NewContentHandler(service service.ContentService, validate *validator.Validate, uploadMaxMB int, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		service:     service,
		validate:    validate,
		uploadLimit: int64(uploadMaxMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "content_handler").Logger(),
	}
}

// Register attaches content routes to the router group. Mutating routes run
// through the edit and delete guards.
func (h *ContentHandler) Register(router fiber.Router, edit, del fiber.Handler) {
	router.Get("/:collection", h.list)
	router.Post("/:collection", edit, h.create)
	router.Get("/:collection/:id", h.get)
	router.Patch("/:collection/:id", edit, h.update)
	router.Delete("/:collection/:id", del, h.delete)
	router.Get("/:collection/:id/export", h.export)
	router.Post("/:collection/:id/audio", edit, h.attachAudio)
}

func (h *ContentHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context(), c.Params("collection"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownCollection) {
			return utils.SendError(c, fiber.StatusNotFound, "unknown collection")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list documents")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list documents")
	}

	return utils.SendSuccess(c, "documents retrieved", items)
}

func (h *ContentHandler) get(c *fiber.Ctx) error {
	doc, err := h.service.Get(c.Context(), c.Params("collection"), c.Params("id"))
	if err != nil {
		return h.sendContentError(c, err, "failed to fetch document")
	}

	return utils.SendSuccess(c, "document retrieved", doc)
}

func (h *ContentHandler) create(c *fiber.Ctx) error {
	var payload dto.ContentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	doc, err := h.service.Create(c.Context(), c.Params("collection"), payload)
	if err != nil {
		return h.sendContentError(c, err, "failed to create document")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "document created", doc)
}

func (h *ContentHandler) update(c *fiber.Ctx) error {
	var payload dto.ContentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	doc, err := h.service.Update(c.Context(), c.Params("collection"), c.Params("id"), payload)
	if err != nil {
		return h.sendContentError(c, err, "failed to update document")
	}

	return utils.SendSuccess(c, "document updated", doc)
}

func (h *ContentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("collection"), c.Params("id")); err != nil {
		return h.sendContentError(c, err, "failed to delete document")
	}

	return utils.SendSuccess(c, "document deleted", fiber.Map{"id": c.Params("id")})
}

func (h *ContentHandler) export(c *fiber.Ctx) error {
	data, filename, err := h.service.ExportWord(c.Context(), c.Params("collection"), c.Params("id"))
	if err != nil {
		return h.sendContentError(c, err, "failed to export document")
	}

	observability.Exports().WithLabelValues("docx").Inc()
	return utils.SendDownload(c, utils.ContentTypeDOCX, filename, data)
}

func (h *ContentHandler) attachAudio(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file field is required")
	}
	if h.uploadLimit > 0 && header.Size > h.uploadLimit {
		return utils.SendError(c, fiber.StatusBadRequest, "file exceeds the upload limit")
	}

	file, err := header.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "could not read uploaded file")
	}
	defer file.Close()

	doc, err := h.service.AttachAudio(c.Context(), c.Params("collection"), c.Params("id"), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAudio):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "uploaded file is not audio")
		case errors.Is(err, service.ErrAudioUnsupported):
			return utils.SendError(c, fiber.StatusBadRequest, "collection does not support audio")
		default:
			return h.sendContentError(c, err, "failed to attach recording")
		}
	}

	return utils.SendSuccess(c, "recording attached", doc)
}

func (h *ContentHandler) sendContentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrUnknownCollection):
		return utils.SendError(c, fiber.StatusNotFound, "unknown collection")
	case errors.Is(err, service.ErrContentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "document not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

package tag

import (
	"errors"

	"github.com/aokihara/unitrack/model"
	"github.com/aokihara/unitrack/services"
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/aokihara/unitrack/utils/response"
	"github.com/aokihara/unitrack/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TagHandler handles tag requests
type TagHandler struct {
	service   *services.TagService
	validator *validation.Validator
}

// NewTagHandler creates a new tag handler
func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{
		service:   services.NewTagService(db),
		validator: validation.NewValidator(),
	}
}

// CreateTagRequest represents the request body for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ListTags handles GET /api/v1/tags. This route is deliberately lenient:
// unauthenticated callers get an empty 200 array instead of a 401, matching
// the observed behavior clients already depend on.
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Success(c, []model.Tag{})
	}

	tags, err := h.service.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch tags")
	}

	return response.Success(c, tags)
}

// CreateTag handles POST /api/v1/tags
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	tag, err := h.service.Upsert(c.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrTagNameRequired) {
			return response.BadRequest(c, "Name is required")
		}
		return response.InternalServerError(c, "Failed to create tag")
	}

	return response.Created(c, tag)
}

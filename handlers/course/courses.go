package course

import (
	"errors"
	"strconv"
	"time"

	"github.com/aokihara/unitrack/model"
	"github.com/aokihara/unitrack/services"
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/aokihara/unitrack/utils/response"
	"github.com/aokihara/unitrack/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseHandler handles timetable course requests
type CourseHandler struct {
	service     *services.CourseService
	idempotency *services.IdempotencyStore // nil when Redis is unavailable
	validator   *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, idempotency *services.IdempotencyStore) *CourseHandler {
	return &CourseHandler{
		service:     services.NewCourseService(db),
		idempotency: idempotency,
		validator:   validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course.
// Pointer fields distinguish "missing" from legitimate zero values
// (dayOfWeek 0 is Sunday).
type CreateCourseRequest struct {
	Title     string    `json:"title" validate:"required,min=1,max=255"`
	DayOfWeek *int      `json:"dayOfWeek" validate:"required,gte=0,lte=6"`
	Period    *int      `json:"period" validate:"required,min=1"`
	Credits   *float64  `json:"credits" validate:"required,gt=0"`
	Tags      *[]string `json:"tags" validate:"required"`
}

// CourseResponse is the wire shape shared with clients; tag names are
// flattened to a plain string array.
type CourseResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	DayOfWeek int       `json:"dayOfWeek"`
	Period    int       `json:"period"`
	Credits   float64   `json:"credits"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

func newCourseResponse(course *model.Course, tags []string) CourseResponse {
	return CourseResponse{
		ID:        course.ID,
		Title:     course.Title,
		DayOfWeek: course.DayOfWeek,
		Period:    course.Period,
		Credits:   course.Credits,
		Tags:      tags,
		CreatedAt: course.CreatedAt,
	}
}

// CreateCourse handles POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Title = validation.SanitizeString(req.Title)
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	// Optional dedup window for retried creations
	idemKey := c.Get("Idempotency-Key")
	if idemKey != "" && h.idempotency != nil {
		proceed, err := h.idempotency.Begin(c.Context(), userID, idemKey)
		if err != nil {
			return response.InternalServerError(c, "Failed to reserve idempotency key")
		}
		if !proceed {
			var cached CourseResponse
			err := h.idempotency.Result(c.Context(), userID, idemKey, &cached)
			if err == nil {
				return response.Created(c, cached)
			}
			if errors.Is(err, services.ErrIdempotencyInFlight) {
				return response.Conflict(c, "A request with this idempotency key is already in progress")
			}
			return response.InternalServerError(c, "Failed to load replayed response")
		}
	}

	course, err := h.service.Create(c.Context(), services.CreateCourseInput{
		UserID:    userID,
		Title:     req.Title,
		DayOfWeek: *req.DayOfWeek,
		Period:    *req.Period,
		Credits:   *req.Credits,
		Tags:      *req.Tags,
	})
	if err != nil {
		if idemKey != "" && h.idempotency != nil {
			h.idempotency.Abort(c.Context(), userID, idemKey)
		}
		if errors.Is(err, services.ErrTagNameRequired) {
			return response.BadRequest(c, "Tag names must not be empty")
		}
		return response.InternalServerError(c, "Failed to create course")
	}

	// Tags echo the submitted order exactly
	res := newCourseResponse(course, *req.Tags)

	if idemKey != "" && h.idempotency != nil {
		h.idempotency.Complete(c.Context(), userID, idemKey, res)
	}

	return response.Created(c, res)
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courses, err := h.service.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	res := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		tags := make([]string, 0, len(courses[i].Tags))
		for _, tag := range courses[i].Tags {
			tags = append(tags, tag.Name)
		}
		res = append(res, newCourseResponse(&courses[i], tags))
	}

	return response.Success(c, res)
}

// DeleteCourse handles DELETE /api/v1/courses?id=
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	idParam := c.Query("id")
	if idParam == "" {
		return response.BadRequest(c, "Course id is required")
	}

	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Course id must be a positive integer")
	}

	if err := h.service.Delete(c.Context(), userID, uint(id)); err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.SuccessWithMessage(c, "Course deleted successfully", nil)
}

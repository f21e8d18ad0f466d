package credit

import (
	"github.com/aokihara/unitrack/credits"
	"github.com/aokihara/unitrack/services"
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/aokihara/unitrack/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreditHandler serves server-side credit aggregation
type CreditHandler struct {
	courses *services.CourseService
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(db *gorm.DB) *CreditHandler {
	return &CreditHandler{
		courses: services.NewCourseService(db),
	}
}

// SummaryResponse maps tag name to total credits earned under that tag
type SummaryResponse struct {
	Totals map[string]float64 `json:"totals"`
}

// GetSummary handles GET /api/v1/credits/summary. It runs the same
// aggregation clients perform locally, over the caller's full course list.
func (h *CreditHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	list, err := h.courses.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	aggInput := make([]credits.Course, 0, len(list))
	for _, course := range list {
		tags := make([]string, 0, len(course.Tags))
		for _, tag := range course.Tags {
			tags = append(tags, tag.Name)
		}
		aggInput = append(aggInput, credits.Course{
			ID:      course.ID,
			Title:   course.Title,
			Credits: course.Credits,
			Tags:    tags,
		})
	}

	return response.Success(c, SummaryResponse{Totals: credits.TotalsByTag(aggInput)})
}

package auth

import (
	"github.com/aokihara/unitrack/utils/middleware"
	"github.com/aokihara/unitrack/utils/response"
	"github.com/gofiber/fiber/v2"
)

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, newUserResponse(user))
}

package server

import (
	"revlink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type markReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// GetNotifications handles GET /api/notifications.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	feed, err := s.notifs.Feed(c.UserContext(), callerID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(feed)
}

// GetUnreadCount handles GET /api/notifications/unread-count.
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notifs.UnreadCount(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationsRead handles POST /api/notifications/read. Re-marking is a
// no-op and notifications addressed to someone else are silently skipped.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(req.IDs) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one notification ID is required"))
	}

	if err := s.notifs.MarkRead(c.UserContext(), callerID(c), req.IDs); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifications marked read"})
}

package server

import (
	"strings"

	"revlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

type registerPushTokenRequest struct {
	Token      string `json:"token"`
	DeviceInfo string `json:"device_info"`
}

// RegisterPushToken handles POST /api/push-tokens. Re-registering an existing
// token moves it to the calling account.
func (s *Server) RegisterPushToken(c *fiber.Ctx) error {
	var req registerPushTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A device token is required"))
	}

	token := &models.PushToken{
		UserID:     callerID(c),
		Token:      req.Token,
		DeviceInfo: req.DeviceInfo,
	}
	if err := s.tokenRepo.Upsert(c.UserContext(), token); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Push token registered",
	})
}

// UnregisterPushToken handles DELETE /api/push-tokens/:token.
func (s *Server) UnregisterPushToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A device token is required"))
	}

	if err := s.tokenRepo.DeleteByToken(c.UserContext(), callerID(c), token); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Push token removed"})
}

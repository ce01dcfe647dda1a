package server

import (
	"strings"

	"revlink/internal/models"
	"revlink/internal/phonehash"

	"github.com/gofiber/fiber/v2"
)

type startVerificationRequest struct {
	Phone string `json:"phone"`
}

type checkVerificationRequest struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Phone     string `json:"phone"`
}

// StartVerification handles POST /api/verify/start.
func (s *Server) StartVerification(c *fiber.Ctx) error {
	var req startVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if phonehash.Normalize(req.Phone) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A phone number is required"))
	}

	requestID, err := s.verifications.Start(c.UserContext(), req.Phone)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"request_id": requestID,
	})
}

// CheckVerification handles POST /api/verify/check. On success the verified
// phone's hash is bound to the caller's profile; the hash itself is computed
// server-side and never taken from the client.
func (s *Server) CheckVerification(c *fiber.Ctx) error {
	userID := callerID(c)

	var req checkVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.RequestID == "" || req.Code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("request_id and code are required"))
	}
	if phonehash.Normalize(req.Phone) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A phone number is required"))
	}

	if err := s.verifications.Check(c.UserContext(), userID, req.RequestID, req.Code, req.Phone); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"verified": true,
	})
}

package server

import (
	"revlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

type contactLookupRequest struct {
	Hashes []string `json:"hashes"`
}

// LookupContacts handles POST /api/contacts/lookup. The client hashes its
// address book locally and sends only the hashes; raw phone numbers never
// reach the server.
func (s *Server) LookupContacts(c *fiber.Ctx) error {
	var req contactLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	users, err := s.matches.LookupByHashes(c.UserContext(), req.Hashes)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"matches": users,
	})
}

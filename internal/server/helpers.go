package server

import (
	"errors"

	"revlink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseUUID extracts a route parameter by name as a UUID. On failure it
// writes a 400 JSON response and returns errResponseWritten; callers should
// check: if err != nil { return nil }.
func (s *Server) parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "userId" -> "user ID", "requestId" -> "request ID".
func humanizeParam(param string) string {
	switch param {
	case "userId":
		return "user ID"
	case "requestId":
		return "request ID"
	case "friendshipId":
		return "friendship ID"
	default:
		return param
	}
}

// callerID returns the authenticated user's ID set by AuthRequired.
func callerID(c *fiber.Ctx) uuid.UUID {
	return c.Locals("userID").(uuid.UUID)
}

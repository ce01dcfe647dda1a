package server

import (
	"revlink/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFriends handles GET /api/friends.
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friends.Friends(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(friends)
}

// SendFriendRequest handles POST /api/friends/requests/:userId.
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	friendship, err := s.friends.SendRequest(c.UserContext(), callerID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// GetPendingRequests handles GET /api/friends/requests.
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.friends.PendingRequests(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent.
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	requests, err := s.friends.SentRequests(c.UserContext(), callerID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// AcceptFriendRequest handles POST /api/friends/requests/:requestId/accept.
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseUUID(c, "requestId")
	if err != nil {
		return nil
	}

	friendship, err := s.friends.AcceptRequest(c.UserContext(), callerID(c), requestID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(friendship)
}

// RejectFriendRequest handles POST /api/friends/requests/:requestId/reject.
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	requestID, err := s.parseUUID(c, "requestId")
	if err != nil {
		return nil
	}

	if err := s.friends.RejectRequest(c.UserContext(), callerID(c), requestID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// RemoveFriend handles DELETE /api/friends/:friendshipId. The same operation
// cancels a still-pending request or ends an accepted friendship.
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friendshipID, err := s.parseUUID(c, "friendshipId")
	if err != nil {
		return nil
	}

	if err := s.friends.RemoveFriend(c.UserContext(), callerID(c), friendshipID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetFriendshipStatus handles GET /api/friends/status/:userId.
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	targetID, err := s.parseUUID(c, "userId")
	if err != nil {
		return nil
	}

	status, friendship, err := s.friends.Status(c.UserContext(), callerID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	resp := fiber.Map{"status": status}
	if friendship != nil {
		resp["friendship"] = friendship
	}
	return c.JSON(resp)
}

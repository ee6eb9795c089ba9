package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeed returns every post newest-first, personalized for the viewer.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	feed, err := s.feedService.AssembleFeed(c.UserContext(), viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts": feed})
}

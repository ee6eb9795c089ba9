package server

import (
	"log/slog"

	"picstream/internal/middleware"
	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Caption  string `json:"caption"`
	ImageIDs []uint `json:"image_ids"`
}

type createCommentRequest struct {
	Body string `json:"comment"`
}

// CreatePost creates a post with its image attachments in one transaction.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Caption:  req.Caption,
		ImageIDs: req.ImageIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Int("image_count", len(req.ImageIDs)),
	)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost deletes a post the viewer owns. Likes and comments cascade.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted",
		slog.Uint64("post_id", uint64(postID)),
	)

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike flips the viewer's like on a post and returns the new state.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	liked, likeCount, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": likeCount,
	})
}

// CreateComment adds a comment to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Body:   req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment deletes a comment the viewer owns.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.postService.DeleteComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

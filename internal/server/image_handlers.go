package server

import (
	"io"

	"picstream/internal/models"
	"picstream/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage registers an uploaded image binary and returns its ID and
// public link. The image stays unattached until a post claims it.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewFieldValidationError("image", "An image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondServiceError(c, models.NewStorageError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondServiceError(c, models.NewStorageError(err))
	}

	image, err := s.imageService.Register(c.UserContext(), service.RegisterImageInput{
		UserID:   currentUserID(c),
		Filename: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   image.ID,
		"link": s.imageService.Link(image),
	})
}

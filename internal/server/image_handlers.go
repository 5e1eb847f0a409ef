package server

import (
	"fmt"
	"io"

	"informatch/internal/models"
	"informatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadProfileImage handles POST /api/profile/images
// @Summary Upload a profile photo
// @Description Multipart upload of an image into photo slot 0-2 or the avatar. Stored as a square WebP with a JPEG fallback.
// @Tags profiles
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Param slot formData string true "0, 1, 2 or avatar"
// @Success 201 {object} service.UploadedImage
// @Failure 400 {object} models.ErrorResponse
// @Router /profile/images [post]
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}

	slot, err := service.ParseImageSlot(c.FormValue("slot"))
	if err != nil {
		return respondErr(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return respondErr(c, models.NewValidationError("No file uploaded"))
	}
	if file.Size > s.imageService.MaxUploadSizeBytes() {
		return respondErr(c, models.NewValidationError(
			fmt.Sprintf("Image exceeds the %d MB limit", s.imageService.MaxUploadSizeBytes()>>20)))
	}

	src, err := file.Open()
	if err != nil {
		return respondErr(c, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return respondErr(c, models.NewValidationError("Unable to read uploaded file"))
	}

	uploaded, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      userID,
		Slot:        slot,
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// DeleteProfileImage handles DELETE /api/profile/images/:slot
func (s *Server) DeleteProfileImage(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return nil
	}
	slot, err := service.ParseImageSlot(c.Params("slot"))
	if err != nil {
		return respondErr(c, err)
	}

	view, err := s.imageService.Remove(c.UserContext(), userID, slot)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(view)
}

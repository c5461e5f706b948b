package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"snipdesk/internal/service"
)

type startSnipResponse struct {
	FilePath string `json:"file_path"`
}

// StartSnip arms the screenshot utility on the server host and waits for the image.
// @Summary Take a screenshot
// @Tags capture
// @Accept mpfd
// @Produce json
// @Param folder formData string true "Folder name or id"
// @Success 200 {object} startSnipResponse
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /start-snip [post]
func StartSnip(svc service.CaptureService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc, err := svc.Start(c.UserContext(), c.FormValue("folder"))
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(startSnipResponse{FilePath: loc})
	}
}

// ServeCapture godoc
// @Summary Download a staged capture
// @Tags capture
// @Produce png
// @Param name path string true "Capture name"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /captures/{name} [get]
func ServeCapture(svc service.CaptureService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Open(c.UserContext(), pathParam(c, "name"))
		if err != nil {
			return respondError(c, log, err)
		}
		return sendObject(c, rc, info)
	}
}

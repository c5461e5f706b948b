package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/model"
	"snipdesk/internal/service"
)

// SaveSnip stores an annotated screenshot. Any created_at in the form is ignored.
// @Summary Save a snip
// @Tags snips
// @Accept mpfd
// @Produce json
// @Param snip formData file true "Image"
// @Param folder formData string true "Folder name or id"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param timestamp formData string true "Capture time, YYYY-MM-DD HH:MM:SS"
// @Success 201 {object} model.Snip
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /save-snip [post]
func SaveSnip(svc service.SnipService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		upload := service.SnipUpload{
			Folder:      c.FormValue("folder"),
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Timestamp:   c.FormValue("timestamp"),
		}

		// A missing image is reported by the service after the field checks.
		if fh, err := c.FormFile("snip"); err == nil {
			files, closeFiles, err := openFiles([]*multipart.FileHeader{fh})
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "cannot open uploaded file")
			}
			defer closeFiles()
			upload.Image = files[0]
		}

		snip, err := svc.Save(c.UserContext(), upload)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(snip)
	}
}

// ListSnips godoc
// @Summary List the snips of a folder, newest first
// @Tags snips
// @Produce json
// @Param folder query string true "Folder name or id"
// @Success 200 {array} model.Snip
// @Router /get-snips [get]
func ListSnips(svc service.SnipService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snips, err := svc.List(c.UserContext(), c.Query("folder"))
		if err != nil {
			return respondError(c, log, err)
		}
		if snips == nil {
			snips = []model.Snip{}
		}
		return c.JSON(snips)
	}
}

// DeleteSnip godoc
// @Summary Delete a snip
// @Tags snips
// @Param id path string true "Snip id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /delete-snip/{id} [delete]
func DeleteSnip(svc service.SnipService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return respondError(c, log, err)
		}
		return deleted(c)
	}
}

// ServeSnip godoc
// @Summary Download a snip image
// @Tags snips
// @Produce png
// @Param folder path string true "Folder name"
// @Param filename path string true "File name"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /uploads/{folder}/snips/{filename} [get]
func ServeSnip(svc service.SnipService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Open(c.UserContext(), pathParam(c, "folder"), pathParam(c, "filename"))
		if err != nil {
			return respondError(c, log, err)
		}
		return sendObject(c, rc, info)
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"snipdesk/internal/model"
	"snipdesk/internal/service"
)

// ListFolders godoc
// @Summary List folders
// @Tags folders
// @Produce json
// @Success 200 {array} model.Folder
// @Router /get-folders [get]
func ListFolders(svc service.FolderService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		folders, err := svc.List(c.UserContext())
		if err != nil {
			return respondError(c, log, err)
		}
		if folders == nil {
			folders = []model.Folder{}
		}
		return c.JSON(folders)
	}
}

// UploadFolder creates a folder from a multipart upload (fields files[] and folderName).
// @Summary Upload a folder of PDFs
// @Tags folders
// @Accept mpfd
// @Produce json
// @Param folderName formData string true "Folder name"
// @Param files[] formData file true "PDF files"
// @Success 201 {object} model.Folder
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /upload-folder [post]
func UploadFolder(svc service.FolderService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "files are required")
		}

		headers := form.File["files[]"]
		if len(headers) == 0 {
			headers = form.File["files"]
		}
		files, closeFiles, err := openFiles(headers)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "cannot open uploaded file")
		}
		defer closeFiles()

		var name string
		if v := form.Value["folderName"]; len(v) > 0 {
			name = v[0]
		}

		folder, err := svc.Upload(c.UserContext(), name, files)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(folder)
	}
}

// DeleteFolder removes a folder with its PDFs, snips and the highlights of its PDFs.
// @Summary Delete a folder
// @Tags folders
// @Param id path string true "Folder id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /delete-folder/{id} [delete]
func DeleteFolder(svc service.FolderService, log zerolog.Logger) fiber.Handler {
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

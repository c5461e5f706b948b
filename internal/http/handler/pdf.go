package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"snipdesk/internal/model"
	"snipdesk/internal/service"
)

// ListPDFs godoc
// @Summary List PDFs of a folder, or of every folder when folder is empty
// @Tags pdfs
// @Produce json
// @Param folder query string false "Folder name or id"
// @Success 200 {array} model.PDF
// @Router /get-pdfs [get]
func ListPDFs(svc service.PDFService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pdfs, err := svc.List(c.UserContext(), c.Query("folder"))
		if err != nil {
			return respondError(c, log, err)
		}
		if pdfs == nil {
			pdfs = []model.PDF{}
		}
		return c.JSON(pdfs)
	}
}

// UploadPDF godoc
// @Summary Upload one PDF
// @Tags pdfs
// @Accept mpfd
// @Produce json
// @Description Saving under the name of a stored PDF replaces its content, which is how an
// @Description edited document is written back. /save-edited-pdf is an alias taking the file as "file".
// @Param pdf formData file true "PDF file"
// @Param folder formData string false "Folder name, defaults to Unsorted"
// @Param filename formData string false "Stored name, defaults to the uploaded file name"
// @Success 200 {object} model.PDF
// @Failure 400 {object} errorPayload
// @Router /upload-pdf [post]
func UploadPDF(svc service.PDFService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("pdf")
		if err != nil {
			fh, err = c.FormFile("file")
		}
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		files, closeFiles, err := openFiles([]*multipart.FileHeader{fh})
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "cannot open uploaded file")
		}
		defer closeFiles()
		if name := strings.TrimSpace(c.FormValue("filename")); name != "" {
			files[0].Filename = name
		}

		pdf, err := svc.Upload(c.UserContext(), c.FormValue("folder"), files[0])
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(pdf)
	}
}

// ServePDF godoc
// @Summary Download a stored PDF
// @Tags pdfs
// @Produce application/pdf
// @Param folder path string true "Folder name"
// @Param filename path string true "File name"
// @Success 200 {file} file
// @Failure 404 {object} errorPayload
// @Router /uploads/{folder}/{filename} [get]
func ServePDF(svc service.PDFService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, info, err := svc.Open(c.UserContext(), pathParam(c, "folder"), pathParam(c, "filename"))
		if err != nil {
			return respondError(c, log, err)
		}
		return sendObject(c, rc, info)
	}
}

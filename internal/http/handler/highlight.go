package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"snipdesk/internal/model"
	"snipdesk/internal/service"
)

type saveHighlightsRequest struct {
	Highlights []model.Highlight `json:"highlights"`
}

type saveHighlightsResponse struct {
	Status string `json:"status"`
	Saved  int    `json:"saved"`
}

// ListHighlights godoc
// @Summary List the highlights recorded against a PDF url
// @Tags highlights
// @Produce json
// @Param pdf query string true "PDF url"
// @Success 200 {array} model.Highlight
// @Failure 400 {object} errorPayload
// @Router /get-highlights [get]
func ListHighlights(svc service.HighlightService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		highlights, err := svc.List(c.UserContext(), c.Query("pdf"))
		if err != nil {
			return respondError(c, log, err)
		}
		if highlights == nil {
			highlights = []model.Highlight{}
		}
		return c.JSON(highlights)
	}
}

// SaveHighlights godoc
// @Summary Save a batch of highlights in one transaction
// @Tags highlights
// @Accept json
// @Produce json
// @Param body body saveHighlightsRequest true "Highlights"
// @Success 200 {object} saveHighlightsResponse
// @Failure 400 {object} errorPayload
// @Router /save-highlight [post]
func SaveHighlights(svc service.HighlightService, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveHighlightsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		}

		n, err := svc.SaveBatch(c.UserContext(), req.Highlights)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(saveHighlightsResponse{Status: "saved", Saved: n})
	}
}

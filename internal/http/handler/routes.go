package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"snipdesk/internal/http/middleware"
	"snipdesk/internal/model"
	"snipdesk/internal/service"
)

// Deps are the collaborators the routes are wired to.
// A nil Gatherer leaves /metrics unregistered.
type Deps struct {
	DB         *sql.DB
	Folders    service.FolderService
	PDFs       service.PDFService
	Snips      service.SnipService
	Highlights service.HighlightService
	Capture    service.CaptureService
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	log := d.Log.With().Str("component", "http").Logger()

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Get("/whoami", WhoAmI())

	app.Get("/get-folders", ListFolders(d.Folders, log))
	app.Post("/upload-folder", UploadFolder(d.Folders, log))
	app.Delete("/delete-folder/:id", DeleteFolder(d.Folders, log))

	app.Get("/get-pdfs", ListPDFs(d.PDFs, log))
	app.Post("/upload-pdf", UploadPDF(d.PDFs, log))
	app.Post("/save-edited-pdf", UploadPDF(d.PDFs, log))

	app.Post("/start-snip", StartSnip(d.Capture, log))
	app.Post("/save-snip", SaveSnip(d.Snips, log))
	app.Get("/get-snips", ListSnips(d.Snips, log))
	app.Delete("/delete-snip/:id", DeleteSnip(d.Snips, log))

	app.Get("/get-highlights", ListHighlights(d.Highlights, log))
	app.Post("/save-highlight", SaveHighlights(d.Highlights, log))

	// Snip images first: both patterns start with /uploads/:folder.
	app.Get("/uploads/:folder/snips/:filename", ServeSnip(d.Snips, log))
	app.Get("/uploads/:folder/:filename", ServePDF(d.PDFs, log))
	app.Get("/captures/:name", ServeCapture(d.Capture, log))
}

// HealthCheck pings the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type whoAmIResponse struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

// WhoAmI reports the caller resolved by middleware.Auth.
func WhoAmI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch u := middleware.UserFromCtx(c).(type) {
		case model.Authenticated:
			return c.JSON(whoAmIResponse{Type: "authenticated", ID: u.ID, Email: u.Email})
		default:
			return c.JSON(whoAmIResponse{Type: "anonymous"})
		}
	}
}

func deleted(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

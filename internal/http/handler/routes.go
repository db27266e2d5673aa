package handler

import (
	"database/sql"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sp3clock/internal/service"
)

// Services bundles the use cases the API exposes.
type Services struct {
	Products service.ProductService
	Sync     service.SyncService
	Analyses service.AnalysisService
	Reports  service.ReportService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/presets", ListPresets())

	app.Get("/products", ListProducts(svc.Products))
	app.Post("/products", UploadProduct(svc.Products))
	app.Get("/products/:id", GetProduct(svc.Products))
	app.Delete("/products/:id", DeleteProduct(svc.Products))

	app.Post("/sync", SyncArchive(svc.Sync))

	app.Post("/analyses", CreateAnalysis(svc.Analyses, svc.Reports))
	app.Get("/analyses", ListAnalyses(svc.Reports))
	app.Get("/analyses/:id", GetAnalysis(svc.Reports))
	app.Get("/analyses/:id/result", GetAnalysisResult(svc.Reports))
	app.Get("/analyses/:id/plots/:kind", GetAnalysisPlot(svc.Reports))
	app.Delete("/analyses/:id", DeleteAnalysis(svc.Reports))
}

// paramError is a rejected query or path parameter.
type paramError struct {
	code    string
	message string
}

func (e *paramError) Error() string { return e.message }

func (e *paramError) write(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, e.code, e.message)
}

// pageParams reads limit and offset, defaulting to 10 and 0.
func pageParams(c *fiber.Ctx) (limit, offset int, perr *paramError) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 0 {
		return 0, 0, &paramError{"INVALID_LIMIT", "invalid limit"}
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, &paramError{"INVALID_OFFSET", "invalid offset"}
	}
	return limit, offset, nil
}

// idParam reads :id, which must be a UUID.
func idParam(c *fiber.Ctx) (string, *paramError) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &paramError{"INVALID_ID", "invalid id format"}
	}
	return id, nil
}

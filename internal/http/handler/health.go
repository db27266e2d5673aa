package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"sp3clock/internal/database"
	"sp3clock/internal/http/middleware"
	"sp3clock/internal/preset"
)

// HealthCheck reports whether the database answers a ping.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Health(c.UserContext(), db); err != nil {
			c.Locals(middleware.ErrorLocalKey, err.Error())
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Success	200
//	@Router		/healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type presetView struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Satellites  []string `json:"satellites"`
}

// ListPresets returns the bundled satellite groups with their expanded IDs.
//
//	@Summary	List satellite presets
//	@Tags		presets
//	@Produce	json
//	@Success	200	{object}	map[string][]presetView
//	@Router		/presets [get]
func ListPresets() fiber.Handler {
	return func(c *fiber.Ctx) error {
		all, err := preset.All()
		if err != nil {
			return writeInternal(c, err)
		}
		out := make([]presetView, 0, len(all))
		for _, p := range all {
			out = append(out, presetView{Name: p.Name, Description: p.Description, Satellites: p.Satellites()})
		}
		return c.JSON(fiber.Map{"data": out})
	}
}

// handlers/ranking_routes.go
package handlers

import (
	"agent-gamification-system/middleware"
	"agent-gamification-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankingRoutes(app *fiber.App, rankingService *services.RankingService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/agent/leaderboard", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		rows, err := rankingService.Leaderboard(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"leaderboard": rows})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/rankings/rebuild", func(c *fiber.Ctx) error {
		results, err := rankingService.Rebuild()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "ranking rebuild failed",
				"cause": err.Error(),
			})
		}

		response := fiber.Map{
			"ranked":   len(results),
			"rankings": results,
		}

		// Snapshot export is best-effort — the persisted rows are the
		// source of truth either way.
		if c.QueryBool("snapshot", false) {
			url, err := rankingService.ExportSnapshot(results)
			if err != nil {
				response["snapshot_error"] = err.Error()
			} else {
				response["snapshot_url"] = url
			}
		}

		return c.JSON(response)
	})
}

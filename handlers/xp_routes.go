// handlers/xp_routes.go
package handlers

import (
	"errors"

	"agent-gamification-system/middleware"
	"agent-gamification-system/models"
	"agent-gamification-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// resolveAgent maps the Gateway-forwarded external user ID to the local
// mirrored agent row.
func resolveAgent(db *gorm.DB, externalUserID string) (*models.Agent, error) {
	var agent models.Agent
	if err := db.Where("external_user_id = ?", externalUserID).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func SetupXPRoutes(app *fiber.App, ledger *services.LedgerService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/agent/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		agent, err := resolveAgent(ledger.DB, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "agent profile not synced yet",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "DB error fetching agent",
				"cause": err.Error(),
			})
		}

		tier := services.TierInfo(agent.PrestigeTier)
		return c.JSON(fiber.Map{
			"agent_id":          agent.ID,
			"season_id":         agent.SeasonID,
			"season_xp":         agent.SeasonXP,
			"bank_xp":           agent.BankXP,
			"lifetime_xp":       agent.LifetimeXP,
			"prestige_tier":     agent.PrestigeTier,
			"tier_name":         tier.Name,
			"tier_min_xp":       tier.MinXP,
			"tier_max_xp":       tier.MaxXP,
			"last_season_reset": agent.LastSeasonReset,
		})
	})

	securedGroup.Get("/agent/xp/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		agent, err := resolveAgent(ledger.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}

		limit := c.QueryInt("limit", 50)
		events, err := ledger.History(agent.ID, c.Query("source"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch XP history",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"events": events})
	})

	securedGroup.Post("/agent/xp/cashout", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		agent, err := resolveAgent(ledger.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}

		result := ledger.CashOut(agent.ID)
		if !result.Success {
			status := fiber.StatusUnprocessableEntity
			if result.NotFound {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(result)
		}
		return c.JSON(result)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			AgentID string `json:"agent_id" validate:"required,uuid"`
			Amount  int64  `json:"amount" validate:"required,min=1"`
			Reason  string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result := ledger.Grant(req.AgentID, req.Amount, req.Reason, "ADMIN")
		if !result.Success {
			status := fiber.StatusInternalServerError
			if result.NotFound {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(result)
		}
		return c.JSON(result)
	})
}

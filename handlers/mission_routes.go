// handlers/mission_routes.go
package handlers

import (
	"errors"
	"time"

	"agent-gamification-system/middleware"
	"agent-gamification-system/models"
	"agent-gamification-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMissionRoutes(app *fiber.App, missionService *services.MissionService) {
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/agent/missions/today", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		agent, err := resolveAgent(missionService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}

		assignment, templates, err := missionService.TodayAssignment(agent.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch today's missions",
				"cause": err.Error(),
			})
		}
		if assignment == nil {
			return c.JSON(fiber.Map{"assignment": nil, "missions": []models.MissionTemplate{}})
		}
		return c.JSON(fiber.Map{"assignment": assignment, "missions": templates})
	})

	securedGroup.Post("/agent/missions/:date/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		agent, err := resolveAgent(missionService.DB, userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "agent not found"})
		}

		type Req struct {
			Slot int `json:"slot" validate:"required,min=1,max=3"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result := missionService.CompleteMission(agent.ID, c.Params("date"), req.Slot)
		if !result.Success {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
		}
		return c.JSON(result)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/missions/templates", func(c *fiber.Ctx) error {
		type Req struct {
			Title    string `json:"title" validate:"required"`
			Category string `json:"category"`
			Points   int64  `json:"points" validate:"min=1"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		tmpl, err := missionService.CreateTemplate(req.Title, req.Category, req.Points)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create mission template",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(tmpl)
	})

	adminGroup.Get("/missions/templates", func(c *fiber.Ctx) error {
		templates, err := missionService.ListTemplates(c.QueryBool("active_only", false))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list mission templates",
				"cause": err.Error(),
			})
		}
		return c.JSON(templates)
	})

	adminGroup.Patch("/missions/templates/:id/active", func(c *fiber.Ctx) error {
		type Req struct {
			Active bool `json:"active"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		if err := missionService.SetTemplateActive(c.Params("id"), req.Active); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "mission template not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update mission template",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "mission template updated"})
	})

	adminGroup.Post("/missions/sets", func(c *fiber.Ctx) error {
		type Req struct {
			Name        string   `json:"name" validate:"required"`
			Description string   `json:"description"`
			MissionIDs  []string `json:"mission_ids" validate:"required,min=1,max=10"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		set, err := missionService.CreateSet(req.Name, req.Description, req.MissionIDs)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create mission set",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(set)
	})

	adminGroup.Post("/missions/assign", func(c *fiber.Ctx) error {
		type Req struct {
			SetID      string   `json:"set_id"`
			MissionIDs []string `json:"mission_ids"` // explicit pool overrides set_id
			AgentIDs   []string `json:"agent_ids"`   // empty = all active agents
			StartDate  string   `json:"start_date" validate:"required"` // YYYY-MM-DD
			Days       int      `json:"days"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		startDate, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start_date (use YYYY-MM-DD)"})
		}
		if req.Days < 1 {
			req.Days = 7
		}

		pool := req.MissionIDs
		if len(pool) == 0 && req.SetID != "" {
			pool, err = missionService.SetPool(req.SetID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "mission set not found"})
				}
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to load mission set",
					"cause": err.Error(),
				})
			}
		}

		agentIDs := req.AgentIDs
		if len(agentIDs) == 0 {
			var agents []models.Agent
			if err := missionService.DB.Where("active = ?", true).Find(&agents).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to list active agents",
					"cause": err.Error(),
				})
			}
			for _, a := range agents {
				agentIDs = append(agentIDs, a.ID)
			}
		}

		result, err := missionService.AssignMissions(agentIDs, pool, startDate, req.Days)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrInvalidPool) || errors.Is(err, services.ErrInsufficientPool) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": "mission assignment failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	adminGroup.Post("/missions/release", func(c *fiber.Ctx) error {
		released, err := missionService.ReleaseDue()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "release failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"released": released})
	})
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the scoring API on router.
func RegisterRoutes(router fiber.Router, score *ScoreHandler) {
	router.Get("/health", HandleHealth)
	router.Post("/cv-score", score.HandleScore)
	router.Post("/cv-score/demo", score.HandleDemo)
}

// HandleHealth handles GET /health
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}

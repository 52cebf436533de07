package handlers

import (
	"cloud-panel/internal/database"
	"cloud-panel/internal/models"

	"github.com/gofiber/fiber/v2"
)

// logActivity records a mutation in the activity log. Best effort;
// the request outcome never depends on it.
func logActivity(c *fiber.Ctx, action, details string) {
	userID, _ := c.Locals("userID").(uint)
	database.DB.Create(&models.ActivityLog{
		UserID:  userID,
		Action:  action,
		Details: details,
		IP:      c.IP(),
	})
}

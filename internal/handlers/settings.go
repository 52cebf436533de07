package handlers

import (
	"cloud-panel/internal/services/settings"

	"github.com/gofiber/fiber/v2"
)

type ProviderSettingsRequest struct {
	Endpoint        string `json:"endpoint" validate:"required,url"`
	Region          string `json:"region" validate:"required"`
	AccessKey       string `json:"access_key" validate:"required"`
	SecretKey       string `json:"secret_key" validate:"required"`
	SecurityGroupID string `json:"security_group_id"`
	NetworkACLID    string `json:"network_acl_id"`
}

// GetProviderSettings returns the stored provider settings with the
// secret key masked
func GetProviderSettings(svc *settings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ps, err := svc.Get()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if ps == nil {
			return c.JSON(fiber.Map{
				"configured": false,
			})
		}

		ps.SecretKey = "********"
		return c.JSON(fiber.Map{
			"configured": true,
			"settings":   ps,
		})
	}
}

// SaveProviderSettings stores the provider account and target
// resource ids
func SaveProviderSettings(svc *settings.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProviderSettingsRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		err := svc.Save(&settings.ProviderSettings{
			Endpoint:        req.Endpoint,
			Region:          req.Region,
			AccessKey:       req.AccessKey,
			SecretKey:       req.SecretKey,
			SecurityGroupID: req.SecurityGroupID,
			NetworkACLID:    req.NetworkACLID,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		logActivity(c, "firewall.settings.update", req.Region)
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Provider settings saved",
		})
	}
}

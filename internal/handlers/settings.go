package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/svijeca/internal/services"
)

// SettingsHandler exposes the flat key-value settings table. Reads are
// public so the storefront can render shipping rules and shop details;
// writes are admin only.
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// ListSettings returns every stored setting as a key-value map.
func (h *SettingsHandler) ListSettings(c *fiber.Ctx) error {
	values, err := h.settings.All()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": values})
}

// GetSetting returns a single setting by key.
func (h *SettingsHandler) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	value, ok := h.settings.Get(key)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "setting not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"key": key, "value": value}})
}

// UpdateSettings bulk upserts settings, last write wins per key.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var payload map[string]string
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(payload) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no settings provided")
	}

	if err := h.settings.SetMany(payload); err != nil {
		return err
	}

	values, err := h.settings.All()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": values})
}

// GetShippingRules resolves the effective shipping tunables with stored
// settings layered over the hardcoded defaults.
func (h *SettingsHandler) GetShippingRules(c *fiber.Ctx) error {
	rules := h.settings.ShippingRules(nil)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"free_shipping_threshold": rules.FreeShippingThreshold,
		"standard_shipping_rate":  rules.StandardRate,
	}})
}

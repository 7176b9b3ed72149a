package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/svijeca/internal/services"
)

// PaypalHandler exposes the two client-facing PayPal steps: opening an
// order intent and capturing it after approval. Order placement verifies
// the capture again server-side.
type PaypalHandler struct {
	paypal *services.PaypalService
}

// NewPaypalHandler constructs PaypalHandler.
func NewPaypalHandler(paypal *services.PaypalService) *PaypalHandler {
	return &PaypalHandler{paypal: paypal}
}

// CreateOrder opens a PayPal order for the given amount.
func (h *PaypalHandler) CreateOrder(c *fiber.Ctx) error {
	var payload struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}

	created, err := h.paypal.CreateOrder(payload.Amount, payload.Currency)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

// CaptureOrder captures an approved PayPal order.
func (h *PaypalHandler) CaptureOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "order id is required")
	}

	captureID, status, err := h.paypal.CaptureOrder(orderID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"order_id":   orderID,
		"capture_id": captureID,
		"status":     status,
	}})
}

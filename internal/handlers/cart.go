package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/svijeca/internal/middleware"
	"github.com/example/svijeca/internal/services"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	cart *services.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type addCartLineRequest struct {
	ProductID  string   `json:"product_id"`
	Quantity   int      `json:"quantity"`
	ScentID    string   `json:"scent_id"`
	ColorID    string   `json:"color_id"`
	ColorIDs   []string `json:"color_ids"`
	MultiColor bool     `json:"multi_color"`
}

// AddLine adds a product variant selection to the cart, merging into an
// existing line when the selection is identical.
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	var scentID *uuid.UUID
	if req.ScentID != "" {
		id, err := uuid.Parse(req.ScentID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid scent_id")
		}
		scentID = &id
	}

	selection := services.ColorSelection{MultiColor: req.MultiColor}
	if req.MultiColor {
		for _, raw := range req.ColorIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid color_ids entry")
			}
			selection.ColorIDs = append(selection.ColorIDs, id)
		}
	} else if req.ColorID != "" {
		id, err := uuid.Parse(req.ColorID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid color_id")
		}
		selection.ColorID = &id
	}

	line, err := h.cart.AddLine(userID, productID, req.Quantity, scentID, selection)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": line})
}

// ListLines returns the user's cart with resolved display data.
func (h *CartHandler) ListLines(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	lines, err := h.cart.ListLines(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": lines})
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateLine changes a line's quantity.
func (h *CartHandler) UpdateLine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	lineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	line, err := h.cart.UpdateQuantity(lineID, userID, req.Quantity)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": line})
}

// RemoveLine deletes a cart line. Removing a line that is already gone is
// not an error.
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	lineID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.cart.RemoveLine(lineID, userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Clear empties the user's cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.cart.Clear(userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

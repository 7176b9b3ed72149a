package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/middleware"
	"github.com/example/svijeca/internal/models"
	"github.com/example/svijeca/internal/services"
	"github.com/example/svijeca/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	orders   *services.OrderService
	invoices *services.InvoiceService
	settings *services.SettingsService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService, invoices *services.InvoiceService, settings *services.SettingsService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, invoices: invoices, settings: settings}
}

// CreateOrder places an order from the user's cart. Admins may instead
// submit an explicit line list, which leaves the cart untouched.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var input services.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if input.Lines != nil && !middleware.IsCurrentUserAdmin(c) {
		return fiber.NewError(fiber.StatusForbidden, "explicit order lines require admin access")
	}

	order, err := h.orders.PlaceOrder(userID, input)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":             order.ID,
			"number":         order.Number,
			"status":         order.Status,
			"placed_at":      order.PlacedAt,
			"subtotal":       order.Subtotal,
			"discount":       order.Discount,
			"shipping_cost":  order.ShippingCost,
			"total":          order.Total,
			"payment_method": order.PaymentMethod,
		},
	})
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Lines").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// getOwnedOrder loads an order, allowing owners and admins.
func (h *OrderHandler) getOwnedOrder(c *fiber.Ctx, preload ...string) (*models.Order, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	query := h.db
	for _, relation := range preload {
		query = query.Preload(relation)
	}

	var order models.Order
	if err := query.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return nil, err
	}

	if order.UserID != userID && !middleware.IsCurrentUserAdmin(c) {
		return nil, fiber.NewError(fiber.StatusForbidden, "not your order")
	}

	return &order, nil
}

// GetOrder returns a single order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.getOwnedOrder(c, "Lines")
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// GetOrderItems returns the line snapshots of an order.
func (h *OrderHandler) GetOrderItems(c *fiber.Ctx) error {
	order, err := h.getOwnedOrder(c, "Lines")
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order.Lines})
}

// GetOrderInvoice returns the invoice belonging to an order.
func (h *OrderHandler) GetOrderInvoice(c *fiber.Ctx) error {
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}

	invoice, err := h.invoices.ForOrder(order.ID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// DownloadOrderInvoicePDF streams the rendered invoice as a download.
func (h *OrderHandler) DownloadOrderInvoicePDF(c *fiber.Ctx) error {
	order, err := h.getOwnedOrder(c)
	if err != nil {
		return err
	}

	invoice, err := h.invoices.ForOrder(order.ID)
	if err != nil {
		return serviceError(err)
	}

	return sendInvoicePDF(c, invoice, h.settings)
}

// sendInvoicePDF renders an invoice and streams it with the canonical
// download filename. Shared by the order and invoice handlers.
func sendInvoicePDF(c *fiber.Ctx, invoice *models.Invoice, settings *services.SettingsService) error {
	view := services.NewInvoiceView(invoice, settings)
	pdf, err := services.RenderInvoicePDF(view)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, invoice.InvoiceNumber))
	return c.Send(pdf)
}

// Admin endpoints.

// AdminListOrders returns all orders with optional status filter.
func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Lines").Preload("User").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// AdminUpdateOrderStatus changes the only mutable order fields.
func (h *OrderHandler) AdminUpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateStatus(id, req.Status, req.PaymentStatus)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

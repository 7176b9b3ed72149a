package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
	"github.com/example/svijeca/internal/services"
	"github.com/example/svijeca/internal/utils"
)

// InvoiceHandler manages admin invoice endpoints.
type InvoiceHandler struct {
	db       *gorm.DB
	invoices *services.InvoiceService
	settings *services.SettingsService
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(db *gorm.DB, invoices *services.InvoiceService, settings *services.SettingsService) *InvoiceHandler {
	return &InvoiceHandler{db: db, invoices: invoices, settings: settings}
}

type createInvoiceRequest struct {
	OrderID  string `json:"order_id"`
	Language string `json:"language"`
}

// CreateInvoice generates the invoice for an order. Calling it again for
// the same order returns the existing invoice unchanged.
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order_id")
	}

	invoice, err := h.invoices.GenerateInvoice(orderID, req.Language)
	if err != nil {
		return serviceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": invoice})
}

// ListInvoices returns paginated invoices, newest first.
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return err
	}

	var invoices []models.Invoice
	if err := h.db.Preload("Lines").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&invoices).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    invoices,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetLastInvoice returns the most recently created invoice. The admin UI
// uses it to preview the next invoice number.
func (h *InvoiceHandler) GetLastInvoice(c *fiber.Ctx) error {
	invoice, err := h.invoices.Last()
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// GetInvoice returns one invoice with its lines.
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	invoice, err := h.invoices.Get(id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": invoice})
}

// DownloadInvoicePDF streams the rendered invoice document.
func (h *InvoiceHandler) DownloadInvoicePDF(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	invoice, err := h.invoices.Get(id)
	if err != nil {
		return serviceError(err)
	}

	return sendInvoicePDF(c, invoice, h.settings)
}

// DeleteInvoice removes an invoice and all of its lines.
func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.invoices.Delete(id); err != nil {
		return serviceError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

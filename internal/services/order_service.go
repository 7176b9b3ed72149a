package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
)

// OrderService assembles carts or admin-entered line lists into persisted
// orders with immutable line snapshots.
type OrderService struct {
	db       *gorm.DB
	cart     *CartService
	settings *SettingsService
	invoices *InvoiceService
	email    *EmailService
	paypal   *PaypalService
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, cart *CartService, settings *SettingsService, invoices *InvoiceService, email *EmailService, paypal *PaypalService) *OrderService {
	return &OrderService{
		db:       db,
		cart:     cart,
		settings: settings,
		invoices: invoices,
		email:    email,
		paypal:   paypal,
	}
}

// ShippingInfo carries the address fields captured on the order.
type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// OrderLineInput is one admin-entered line. Product name and price are
// resolved from the catalog when omitted.
type OrderLineInput struct {
	ProductID   *uuid.UUID  `json:"product_id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   float64     `json:"unit_price"`
	ScentID     *uuid.UUID  `json:"scent_id"`
	ColorID     *uuid.UUID  `json:"color_id"`
	ColorIDs    []uuid.UUID `json:"color_ids"`
	MultiColor  bool        `json:"multi_color"`
}

// PlaceOrderInput is the full checkout payload. Lines is nil for a normal
// cart checkout; admins may pass explicit lines instead, in which case the
// cart is left untouched.
type PlaceOrderInput struct {
	Shipping         ShippingInfo      `json:"shipping"`
	PaymentMethod    string            `json:"payment_method"`
	PaypalOrderID    string            `json:"paypal_order_id"`
	Note             string            `json:"note"`
	Language         string            `json:"language"`
	Lines            []OrderLineInput  `json:"lines"`
	SettingOverrides map[string]string `json:"setting_overrides"`
}

// PlaceOrder validates the checkout payload, computes totals, persists the
// order with its line snapshots, clears the cart when it was the source,
// and kicks off best-effort invoice generation and notification.
func (s *OrderService) PlaceOrder(userID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}

	switch input.PaymentMethod {
	case models.PaymentMethodCash, models.PaymentMethodTransfer, models.PaymentMethodPaypal:
	case "":
		return nil, newValidationError("payment_method", "is required")
	default:
		return nil, newValidationError("payment_method", "unknown payment method")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// PayPal orders must carry a capture reference that verifies as
	// completed. This is enforced here, not trusted from the client.
	paymentStatus := "unpaid"
	captureID := ""
	if input.PaymentMethod == models.PaymentMethodPaypal {
		if input.PaypalOrderID == "" {
			return nil, ErrPaymentIncomplete
		}
		id, completed, err := s.paypal.VerifyCapture(input.PaypalOrderID)
		if err != nil {
			return nil, err
		}
		if !completed {
			return nil, ErrPaymentIncomplete
		}
		captureID = id
		paymentStatus = "paid"
	}

	fromCart := input.Lines == nil
	var lines []models.OrderLine
	var err error
	if fromCart {
		lines, err = s.linesFromCart(userID)
	} else {
		lines, err = s.linesFromInput(input.Lines)
	}
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		if fromCart {
			return nil, ErrEmptyCart
		}
		return nil, newValidationError("lines", "must not be empty")
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	rules := s.settings.ShippingRules(input.SettingOverrides)
	shipping := rules.StandardRate
	if rules.StandardRate == 0 || (rules.FreeShippingThreshold > 0 && subtotal >= rules.FreeShippingThreshold) {
		shipping = 0
	}

	discount := 0.0
	if user.DiscountAmount > 0 &&
		(user.DiscountExpiresAt == nil || user.DiscountExpiresAt.After(time.Now())) &&
		subtotal >= user.DiscountMinOrder {
		discount = user.DiscountAmount
	}

	total := subtotal + shipping - discount
	if total < 0 {
		total = 0
	}

	language := normalizeLanguage(input.Language)
	if input.Language == "" && user.Language != "" {
		language = normalizeLanguage(user.Language)
	}

	order := models.Order{
		UserID:             userID,
		Status:             models.OrderStatusPending,
		PlacedAt:           time.Now(),
		ShippingName:       input.Shipping.Name,
		ShippingEmail:      input.Shipping.Email,
		ShippingAddress:    input.Shipping.Address,
		ShippingCity:       input.Shipping.City,
		ShippingPostalCode: input.Shipping.PostalCode,
		ShippingCountry:    input.Shipping.Country,
		ShippingPhone:      input.Shipping.Phone,
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      paymentStatus,
		PaypalOrderID:      input.PaypalOrderID,
		PaypalCaptureID:    captureID,
		Subtotal:           subtotal,
		Discount:           discount,
		ShippingCost:       shipping,
		Total:              total,
		Note:               input.Note,
		Language:           language,
		Lines:              lines,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		number, err := nextSequence(tx, orderSequenceName, 0)
		if err != nil {
			return err
		}
		order.Number = number
		return tx.Create(&order).Error
	}); err != nil {
		return nil, err
	}

	if fromCart {
		if err := s.cart.Clear(userID); err != nil {
			log.Printf("[Order] failed to clear cart for user %s: %v", userID, err)
		}
	}

	go s.dispatchSideEffects(order, user)

	return &order, nil
}

// dispatchSideEffects runs the best-effort post-placement work: automatic
// invoice generation and the new-order notification. Failures are logged
// and never surfaced to the customer.
func (s *OrderService) dispatchSideEffects(order models.Order, user models.User) {
	if _, err := s.invoices.GenerateInvoice(order.ID, order.Language); err != nil {
		log.Printf("[Order] invoice generation failed for order %d: %v", order.Number, err)
	}

	if err := s.email.NotifyNewOrder(&order, &user); err != nil {
		log.Printf("[Order] order notification failed for order %d: %v", order.Number, err)
	}
}

func (s *OrderService) linesFromCart(userID uuid.UUID) ([]models.OrderLine, error) {
	cartLines, err := s.cart.ListLines(userID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(cartLines))
	for _, cl := range cartLines {
		line := models.OrderLine{
			Quantity:     cl.Quantity,
			ScentID:      cl.ScentID,
			ColorID:      cl.ColorID,
			ColorIDs:     cl.ColorIDs,
			IsMultiColor: cl.IsMultiColor,
		}

		productID := cl.ProductID
		line.ProductID = &productID
		if cl.Product != nil {
			line.ProductName = cl.Product.Name
			line.UnitPrice = cl.Product.Price
		}
		if cl.Scent != nil {
			line.ScentName = cl.Scent.Name
		}
		if cl.Color != nil {
			line.ColorName = cl.Color.Name
		}
		if len(cl.MultiColors) > 0 {
			names := make([]string, len(cl.MultiColors))
			for i, color := range cl.MultiColors {
				names[i] = color.Name
			}
			line.ColorNames = strings.Join(names, ", ")
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func (s *OrderService) linesFromInput(inputs []OrderLineInput) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, newValidationError("quantity", "must be a positive integer")
		}

		line := models.OrderLine{
			ProductID:    in.ProductID,
			ProductName:  in.ProductName,
			Quantity:     in.Quantity,
			UnitPrice:    in.UnitPrice,
			ScentID:      in.ScentID,
			ColorID:      in.ColorID,
			IsMultiColor: in.MultiColor,
		}
		if in.MultiColor {
			line.ColorIDs = NormalizeColorIDs(in.ColorIDs)
		}

		if in.ProductID != nil {
			var product models.Product
			if err := s.db.First(&product, "id = ?", *in.ProductID).Error; err == nil {
				if line.ProductName == "" {
					line.ProductName = product.Name
				}
				if line.UnitPrice == 0 {
					line.UnitPrice = product.Price
				}
			}
		}
		if line.ProductName == "" {
			return nil, newValidationError("product_name", "is required")
		}

		if in.ScentID != nil {
			var scent models.Scent
			if err := s.db.First(&scent, "id = ?", *in.ScentID).Error; err == nil {
				line.ScentName = scent.Name
			}
		}
		if !in.MultiColor && in.ColorID != nil {
			var color models.Color
			if err := s.db.First(&color, "id = ?", *in.ColorID).Error; err == nil {
				line.ColorName = color.Name
			}
		}
		if in.MultiColor && len(in.ColorIDs) > 0 {
			var colors []models.Color
			if err := s.db.Where("id IN ?", in.ColorIDs).Order("name asc").Find(&colors).Error; err == nil {
				names := make([]string, len(colors))
				for i, color := range colors {
					names[i] = color.Name
				}
				line.ColorNames = strings.Join(names, ", ")
			}
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// UpdateStatus changes the mutable order fields: status and payment status.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, status, paymentStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if status != "" {
		switch status {
		case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusShipped,
			models.OrderStatusCompleted, models.OrderStatusCancelled:
			order.Status = status
		default:
			return nil, newValidationError("status", "unknown order status")
		}
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func validateShipping(info ShippingInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return newValidationError("shipping.name", "is required")
	}
	if strings.TrimSpace(info.Address) == "" {
		return newValidationError("shipping.address", "is required")
	}
	if strings.TrimSpace(info.City) == "" {
		return newValidationError("shipping.city", "is required")
	}
	if strings.TrimSpace(info.PostalCode) == "" {
		return newValidationError("shipping.postal_code", "is required")
	}
	return nil
}

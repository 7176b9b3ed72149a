package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
)

// invoiceNumberFloor is the lowest number ever issued; the numbering
// carried on from the shop's previous bookkeeping at 450.
const invoiceNumberFloor = 450

// invoiceCreateRetries bounds the duplicate-number retry loop.
const invoiceCreateRetries = 3

// InvoiceService creates at most one invoice per order and allocates the
// sequential human-facing invoice numbers.
type InvoiceService struct {
	db    *gorm.DB
	email *EmailService
}

// NewInvoiceService constructs InvoiceService.
func NewInvoiceService(db *gorm.DB, email *EmailService) *InvoiceService {
	return &InvoiceService{db: db, email: email}
}

// FormatInvoiceNumber renders the human-facing form, e.g. i450.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("i%d", n)
}

// ParseInvoiceNumber extracts the numeric part of an i<N> identifier.
func ParseInvoiceNumber(number string) (int64, error) {
	trimmed := strings.TrimPrefix(number, "i")
	return strconv.ParseInt(trimmed, 10, 64)
}

// GenerateInvoice creates the invoice for an order, or returns the existing
// one. The number is max(last+1, 450, order number): the counter row is
// bumped inside the transaction and a unique index on invoice_number backs
// it up with a bounded retry.
func (s *InvoiceService) GenerateInvoice(orderID uuid.UUID, language string) (*models.Invoice, error) {
	if existing, err := s.ForOrder(orderID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	var order models.Order
	if err := s.db.Preload("Lines").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(order.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	invoice := buildInvoice(&order, &user, language)

	var lastErr error
	for attempt := 0; attempt < invoiceCreateRetries; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			number, err := nextSequence(tx, invoiceSequenceName, invoiceNumberFloor-1)
			if err != nil {
				return err
			}

			floor := order.Number
			if floor < invoiceNumberFloor {
				floor = invoiceNumberFloor
			}
			number, err = raiseSequence(tx, invoiceSequenceName, number, floor)
			if err != nil {
				return err
			}

			invoice.InvoiceNumber = FormatInvoiceNumber(number)
			invoice.BaseModel = models.BaseModel{}
			return tx.Create(invoice).Error
		})
		if err == nil {
			s.notifyCreated(invoice, &user)
			return invoice, nil
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either the number collided or another request already
			// invoiced this order.
			if existing, lookupErr := s.ForOrder(orderID); lookupErr == nil {
				return existing, nil
			}
			s.syncCounter()
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

// syncCounter lifts the counter to the most recently created invoice's
// number, so a retry after a collision does not re-issue the same value.
// Collisions can only happen when invoices were inserted outside the
// allocator, e.g. restored from a backup.
func (s *InvoiceService) syncCounter() {
	last, err := s.Last()
	if err != nil {
		return
	}
	n, err := ParseInvoiceNumber(last.InvoiceNumber)
	if err != nil {
		return
	}
	s.db.Model(&models.Sequence{}).
		Where("name = ? AND value < ?", invoiceSequenceName, n).
		Update("value", n)
}

func buildInvoice(order *models.Order, user *models.User, language string) *models.Invoice {
	// Order-level shipping fields win over profile fields where both exist.
	name := order.ShippingName
	if name == "" {
		name = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	email := order.ShippingEmail
	if email == "" {
		email = user.Email
	}
	address := order.ShippingAddress
	if address == "" {
		address = user.Address
	}
	city := order.ShippingCity
	if city == "" {
		city = user.City
	}
	postalCode := order.ShippingPostalCode
	if postalCode == "" {
		postalCode = user.PostalCode
	}
	country := order.ShippingCountry
	if country == "" {
		country = user.Country
	}
	phone := order.ShippingPhone
	if phone == "" {
		phone = user.Phone
	}

	if language == "" {
		language = order.Language
	}

	invoice := &models.Invoice{
		OrderID:            order.ID,
		CustomerName:       name,
		CustomerEmail:      email,
		CustomerAddress:    address,
		CustomerCity:       city,
		CustomerPostalCode: postalCode,
		CustomerCountry:    country,
		CustomerPhone:      phone,
		Subtotal:           order.Subtotal,
		ShippingCost:       order.ShippingCost,
		Tax:                0,
		Total:              order.Total,
		PaymentMethod:      order.PaymentMethod,
		PaymentStatus:      order.PaymentStatus,
		Note:               order.Note,
		Language:           normalizeLanguage(language),
	}

	for _, line := range order.Lines {
		invoice.Lines = append(invoice.Lines, models.InvoiceLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			VariantText: variantText(line),
		})
	}

	return invoice
}

// variantText renders the scent/color selection of an order line for the
// invoice, e.g. "Lavanda / Bijela, Zlatna".
func variantText(line models.OrderLine) string {
	var parts []string
	if line.ScentName != "" {
		parts = append(parts, line.ScentName)
	}
	if line.IsMultiColor {
		if line.ColorNames != "" {
			parts = append(parts, line.ColorNames)
		}
	} else if line.ColorName != "" {
		parts = append(parts, line.ColorName)
	}
	return strings.Join(parts, " / ")
}

func (s *InvoiceService) notifyCreated(invoice *models.Invoice, user *models.User) {
	if err := s.email.NotifyInvoiceCreated(invoice, user); err != nil {
		log.Printf("[Invoice] notification failed for %s: %v", invoice.InvoiceNumber, err)
	}
}

// ForOrder returns the invoice belonging to an order.
func (s *InvoiceService) ForOrder(orderID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Lines").First(&invoice, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// Get returns an invoice with its lines.
func (s *InvoiceService) Get(invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Lines").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// Last returns the most recently created invoice, if any.
func (s *InvoiceService) Last() (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Order("created_at desc").First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// Delete removes an invoice together with its lines. Lines are deleted
// explicitly so no orphans remain even without database-level cascades.
func (s *InvoiceService) Delete(invoiceID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&models.InvoiceLine{}, "invoice_id = ?", invoiceID).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
}

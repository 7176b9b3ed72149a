package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
)

// createTestOrder persists an order with one line directly, bypassing
// checkout, so invoice behavior can be exercised in isolation.
func createTestOrder(t *testing.T, db *gorm.DB, user *models.User, number int64) *models.Order {
	t.Helper()

	order := &models.Order{
		UserID:             user.ID,
		Number:             number,
		Status:             models.OrderStatusPending,
		PlacedAt:           time.Now(),
		ShippingName:       "Ana Horvat",
		ShippingEmail:      "ana@example.com",
		ShippingAddress:    "Ilica 5",
		ShippingCity:       "Zagreb",
		ShippingPostalCode: "10000",
		ShippingCountry:    "Hrvatska",
		PaymentMethod:      models.PaymentMethodTransfer,
		PaymentStatus:      "unpaid",
		Subtotal:           30,
		ShippingCost:       5,
		Total:              35,
		Language:           "hr",
		Lines: []models.OrderLine{{
			ProductName: "Lavanda svijeća",
			Quantity:    2,
			UnitPrice:   15,
			ScentName:   "Lavanda",
			ColorName:   "Bijela",
		}},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create test order: %v", err)
	}
	return order
}

func newTestInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(db, testEmailService())
}

func TestGenerateInvoiceStartsAtFloor(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)
	order := createTestOrder(t, db, user, 1)

	invoice, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if invoice.InvoiceNumber != "i450" {
		t.Errorf("invoice number = %q, want i450", invoice.InvoiceNumber)
	}
}

func TestGenerateInvoiceIdempotent(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)
	order := createTestOrder(t, db, user, 1)

	first, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("second call returned a different invoice: %s vs %s", first.ID, second.ID)
	}
	if first.InvoiceNumber != second.InvoiceNumber {
		t.Errorf("numbers differ: %q vs %q", first.InvoiceNumber, second.InvoiceNumber)
	}

	var count int64
	db.Model(&models.Invoice{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 1 {
		t.Errorf("invoice count = %d, want 1", count)
	}
}

func TestGenerateInvoiceNumbersAreMonotonic(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)

	first, err := invoices.GenerateInvoice(createTestOrder(t, db, user, 1).ID, "")
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := invoices.GenerateInvoice(createTestOrder(t, db, user, 2).ID, "")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	if first.InvoiceNumber != "i450" || second.InvoiceNumber != "i451" {
		t.Errorf("numbers = %q, %q, want i450, i451", first.InvoiceNumber, second.InvoiceNumber)
	}
}

func TestGenerateInvoiceFollowsOrderNumber(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)

	jumped, err := invoices.GenerateInvoice(createTestOrder(t, db, user, 500).ID, "")
	if err != nil {
		t.Fatalf("generate for order 500: %v", err)
	}
	if jumped.InvoiceNumber != "i500" {
		t.Errorf("invoice number = %q, want i500", jumped.InvoiceNumber)
	}

	next, err := invoices.GenerateInvoice(createTestOrder(t, db, user, 2).ID, "")
	if err != nil {
		t.Fatalf("generate for order 2: %v", err)
	}
	if next.InvoiceNumber != "i501" {
		t.Errorf("next invoice number = %q, want i501", next.InvoiceNumber)
	}
}

func TestGenerateInvoiceEmptyOrder(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)

	order := &models.Order{
		UserID:        user.ID,
		Number:        1,
		Status:        models.OrderStatusPending,
		PlacedAt:      time.Now(),
		PaymentMethod: models.PaymentMethodCash,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := invoices.GenerateInvoice(order.ID, ""); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestGenerateInvoiceCustomerSnapshot(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)

	user := createTestUser(t, db)
	user.Address = "Profilna ulica 7"
	user.City = "Split"
	user.PostalCode = "21000"
	user.Phone = "+385 91 000 0000"
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("save user: %v", err)
	}

	order := createTestOrder(t, db, user, 1)
	// Phone is captured only on the profile for this order.
	order.ShippingPhone = ""
	if err := db.Save(order).Error; err != nil {
		t.Fatalf("save order: %v", err)
	}

	invoice, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if invoice.CustomerAddress != "Ilica 5" {
		t.Errorf("address = %q, want order value", invoice.CustomerAddress)
	}
	if invoice.CustomerCity != "Zagreb" {
		t.Errorf("city = %q, want order value", invoice.CustomerCity)
	}
	if invoice.CustomerPhone != "+385 91 000 0000" {
		t.Errorf("phone = %q, want profile fallback", invoice.CustomerPhone)
	}
}

func TestGenerateInvoiceLanguageFallsBackToOrder(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)

	order := createTestOrder(t, db, user, 1)
	order.Language = "de"
	if err := db.Save(order).Error; err != nil {
		t.Fatalf("save order: %v", err)
	}

	invoice, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if invoice.Language != "de" {
		t.Errorf("language = %q, want de", invoice.Language)
	}

	other := createTestOrder(t, db, user, 2)
	explicit, err := invoices.GenerateInvoice(other.ID, "it")
	if err != nil {
		t.Fatalf("generate with explicit language: %v", err)
	}
	if explicit.Language != "it" {
		t.Errorf("language = %q, want it", explicit.Language)
	}
}

func TestDeleteInvoiceRemovesLines(t *testing.T) {
	db := newTestDB(t)
	invoices := newTestInvoiceService(db)
	user := createTestUser(t, db)
	order := createTestOrder(t, db, user, 1)

	invoice, err := invoices.GenerateInvoice(order.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := invoices.Delete(invoice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := invoices.ForOrder(order.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ForOrder after delete err = %v, want ErrNotFound", err)
	}

	var lineCount int64
	db.Model(&models.InvoiceLine{}).Where("invoice_id = ?", invoice.ID).Count(&lineCount)
	if lineCount != 0 {
		t.Errorf("orphaned line count = %d, want 0", lineCount)
	}

	if err := invoices.Delete(invoice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestInvoiceNumberRoundTrip(t *testing.T) {
	if got := FormatInvoiceNumber(450); got != "i450" {
		t.Errorf("FormatInvoiceNumber(450) = %q, want i450", got)
	}

	n, err := ParseInvoiceNumber("i501")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n != 501 {
		t.Errorf("parsed = %d, want 501", n)
	}

	if _, err := ParseInvoiceNumber("draft"); err == nil {
		t.Error("parsing a non-numeric identifier should fail")
	}
}

func TestVariantText(t *testing.T) {
	cases := []struct {
		name string
		line models.OrderLine
		want string
	}{
		{"scent and color", models.OrderLine{ScentName: "Lavanda", ColorName: "Bijela"}, "Lavanda / Bijela"},
		{"scent only", models.OrderLine{ScentName: "Lavanda"}, "Lavanda"},
		{"color only", models.OrderLine{ColorName: "Bijela"}, "Bijela"},
		{"multi color", models.OrderLine{IsMultiColor: true, ColorNames: "Bijela, Zlatna"}, "Bijela, Zlatna"},
		{"none", models.OrderLine{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := variantText(tc.line); got != tc.want {
				t.Errorf("variantText = %q, want %q", got, tc.want)
			}
		})
	}
}

package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/example/svijeca/internal/models"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		InvoiceNumber:      "i450",
		CustomerName:       "Ana Horvat",
		CustomerEmail:      "ana@example.com",
		CustomerAddress:    "Ilica 5",
		CustomerCity:       "Zagreb",
		CustomerPostalCode: "10000",
		CustomerCountry:    "Hrvatska",
		Subtotal:           30,
		ShippingCost:       5,
		Total:              35,
		PaymentMethod:      models.PaymentMethodTransfer,
		PaymentStatus:      "unpaid",
		Note:               "Molim dostavu poslijepodne, hvala. Šaljite pažljivo.",
		Language:           "hr",
		Lines: []models.InvoiceLine{{
			ProductName: "Lavanda svijeća",
			Quantity:    2,
			UnitPrice:   15,
			VariantText: "Lavanda / Bijela",
		}},
	}
}

func TestRenderInvoicePDF(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	view := NewInvoiceView(sampleInvoice(), settings)
	data, err := RenderInvoicePDF(view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
	if len(data) < 1000 {
		t.Errorf("output suspiciously small: %d bytes", len(data))
	}
}

func TestRenderInvoicePDFAllLanguages(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	for _, lang := range []string{"hr", "de", "en", "it", "sl"} {
		invoice := sampleInvoice()
		invoice.Language = lang

		view := NewInvoiceView(invoice, settings)
		if view.Language != lang {
			t.Errorf("view language = %q, want %q", view.Language, lang)
		}
		if _, err := RenderInvoicePDF(view); err != nil {
			t.Errorf("render %s: %v", lang, err)
		}
	}
}

func TestRenderInvoicePDFUnknownLanguageFallsBack(t *testing.T) {
	invoice := sampleInvoice()
	invoice.Language = "fr"

	db := newTestDB(t)
	view := NewInvoiceView(invoice, NewSettingsService(db))
	if view.Language != DefaultLanguage {
		t.Errorf("view language = %q, want default %q", view.Language, DefaultLanguage)
	}
	if _, err := RenderInvoicePDF(view); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestNewInvoiceViewSellerFromSettings(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	defaulted := NewInvoiceView(sampleInvoice(), settings)
	if defaulted.Seller.Name == "" {
		t.Error("seller name should have a hardcoded fallback")
	}

	if err := settings.SetMany(map[string]string{
		SettingShopName: "Moja Svijeća j.d.o.o.",
		SettingShopIBAN: "HR1210010051863000160",
	}); err != nil {
		t.Fatalf("set settings: %v", err)
	}

	configured := NewInvoiceView(sampleInvoice(), settings)
	if configured.Seller.Name != "Moja Svijeća j.d.o.o." {
		t.Errorf("seller name = %q, want stored setting", configured.Seller.Name)
	}
	if configured.Seller.IBAN != "HR1210010051863000160" {
		t.Errorf("seller iban = %q, want stored setting", configured.Seller.IBAN)
	}
}

func TestNewInvoiceViewLineTotals(t *testing.T) {
	invoice := sampleInvoice()
	invoice.Lines = append(invoice.Lines, models.InvoiceLine{
		ProductName: "Mala svijeća",
		Quantity:    3,
		UnitPrice:   4.5,
	})
	invoice.CreatedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	db := newTestDB(t)
	view := NewInvoiceView(invoice, NewSettingsService(db))

	if len(view.Lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(view.Lines))
	}
	if view.Lines[0].LineTotal != 30 {
		t.Errorf("first line total = %v, want 30", view.Lines[0].LineTotal)
	}
	if view.Lines[1].LineTotal != 13.5 {
		t.Errorf("second line total = %v, want 13.5", view.Lines[1].LineTotal)
	}
	if !view.IssuedAt.Equal(invoice.CreatedAt) {
		t.Errorf("issued at = %v, want invoice creation time", view.IssuedAt)
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(12.5); got != "12.50 €" {
		t.Errorf("FormatMoney(12.5) = %q", got)
	}
	if got := FormatMoney(0); got != "0.00 €" {
		t.Errorf("FormatMoney(0) = %q", got)
	}
}

package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/svijeca/internal/models"
)

// SellerInfo is the shop identity printed in the invoice header, sourced
// from the settings store.
type SellerInfo struct {
	Name    string
	Address string
	TaxID   string
	Email   string
	Phone   string
	IBAN    string
}

// InvoiceViewLine is one rendered line-items row.
type InvoiceViewLine struct {
	Name        string
	VariantText string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

// InvoiceView is the single normalized input of the PDF renderer. Every
// call site (admin invoice view, admin order view, customer order detail)
// assembles one of these instead of rendering on its own.
type InvoiceView struct {
	Number   string
	IssuedAt time.Time
	Language string

	Seller SellerInfo

	CustomerName       string
	CustomerAddress    string
	CustomerCity       string
	CustomerPostalCode string
	CustomerCountry    string
	CustomerEmail      string
	CustomerPhone      string

	Note string

	Lines []InvoiceViewLine

	Subtotal     float64
	ShippingCost float64
	Tax          float64
	Total        float64

	PaymentMethod string
	PaymentStatus string
}

// NewInvoiceView flattens a persisted invoice and the shop settings into
// the renderer input.
func NewInvoiceView(invoice *models.Invoice, settings *SettingsService) InvoiceView {
	resolver := NewConfigResolver(settings, MapProvider{
		SettingShopName:    "Svijeća d.o.o.",
		SettingShopAddress: "Ilica 1, 10000 Zagreb",
		SettingShopTaxID:   "HR00000000001",
		SettingShopEmail:   "info@svijeca.hr",
		SettingShopPhone:   "+385 1 000 0000",
		SettingShopIBAN:    "HR0000000000000000000",
	})
	lookup := func(key string) string {
		value, _ := resolver.Resolve(key)
		return value
	}

	view := InvoiceView{
		Number:   invoice.InvoiceNumber,
		IssuedAt: invoice.CreatedAt,
		Language: normalizeLanguage(invoice.Language),
		Seller: SellerInfo{
			Name:    lookup(SettingShopName),
			Address: lookup(SettingShopAddress),
			TaxID:   lookup(SettingShopTaxID),
			Email:   lookup(SettingShopEmail),
			Phone:   lookup(SettingShopPhone),
			IBAN:    lookup(SettingShopIBAN),
		},
		CustomerName:       invoice.CustomerName,
		CustomerAddress:    invoice.CustomerAddress,
		CustomerCity:       invoice.CustomerCity,
		CustomerPostalCode: invoice.CustomerPostalCode,
		CustomerCountry:    invoice.CustomerCountry,
		CustomerEmail:      invoice.CustomerEmail,
		CustomerPhone:      invoice.CustomerPhone,
		Note:               invoice.Note,
		Subtotal:           invoice.Subtotal,
		ShippingCost:       invoice.ShippingCost,
		Tax:                invoice.Tax,
		Total:              invoice.Total,
		PaymentMethod:      invoice.PaymentMethod,
		PaymentStatus:      invoice.PaymentStatus,
	}

	for _, line := range invoice.Lines {
		view.Lines = append(view.Lines, InvoiceViewLine{
			Name:        line.ProductName,
			VariantText: line.VariantText,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.UnitPrice * float64(line.Quantity),
		})
	}

	return view
}

type invoiceLabels struct {
	Invoice         string
	Date            string
	BillTo          string
	Note            string
	Item            string
	Quantity        string
	UnitPrice       string
	LineTotal       string
	Subtotal        string
	Shipping        string
	Tax             string
	TaxExemption    string
	Total           string
	PaymentMethod   string
	PaymentStatus   string
	PaymentMethods  map[string]string
	PaymentStatuses map[string]string
	FooterLegal     string
}

var invoiceLabelTables = map[string]invoiceLabels{
	LanguageCroatian: {
		Invoice:       "Račun",
		Date:          "Datum",
		BillTo:        "Kupac",
		Note:          "Napomena",
		Item:          "Proizvod",
		Quantity:      "Kol.",
		UnitPrice:     "Cijena",
		LineTotal:     "Iznos",
		Subtotal:      "Osnovica",
		Shipping:      "Dostava",
		Tax:           "PDV (0%)",
		TaxExemption:  "PDV nije obračunat temeljem čl. 90. st. 2. Zakona o PDV-u.",
		Total:         "Ukupno",
		PaymentMethod: "Način plaćanja",
		PaymentStatus: "Status plaćanja",
		PaymentMethods: map[string]string{
			models.PaymentMethodCash:     "Pouzeće",
			models.PaymentMethodTransfer: "Bankovna uplata",
			models.PaymentMethodPaypal:   "PayPal",
		},
		PaymentStatuses: map[string]string{
			"paid":   "Plaćeno",
			"unpaid": "Nije plaćeno",
		},
		FooterLegal: "Hvala na kupnji! Za pitanja o računu obratite nam se na navedeni e-mail.",
	},
	LanguageGerman: {
		Invoice:       "Rechnung",
		Date:          "Datum",
		BillTo:        "Käufer",
		Note:          "Anmerkung",
		Item:          "Produkt",
		Quantity:      "Menge",
		UnitPrice:     "Preis",
		LineTotal:     "Betrag",
		Subtotal:      "Zwischensumme",
		Shipping:      "Versand",
		Tax:           "MwSt. (0%)",
		TaxExemption:  "MwSt. nicht berechnet gemäß Art. 90 Abs. 2 des kroatischen MwSt.-Gesetzes.",
		Total:         "Gesamt",
		PaymentMethod: "Zahlungsart",
		PaymentStatus: "Zahlungsstatus",
		PaymentMethods: map[string]string{
			models.PaymentMethodCash:     "Nachnahme",
			models.PaymentMethodTransfer: "Überweisung",
			models.PaymentMethodPaypal:   "PayPal",
		},
		PaymentStatuses: map[string]string{
			"paid":   "Bezahlt",
			"unpaid": "Unbezahlt",
		},
		FooterLegal: "Vielen Dank für Ihren Einkauf! Bei Fragen zur Rechnung erreichen Sie uns per E-Mail.",
	},
	LanguageEnglish: {
		Invoice:       "Invoice",
		Date:          "Date",
		BillTo:        "Bill to",
		Note:          "Note",
		Item:          "Product",
		Quantity:      "Qty",
		UnitPrice:     "Unit price",
		LineTotal:     "Amount",
		Subtotal:      "Subtotal",
		Shipping:      "Shipping",
		Tax:           "VAT (0%)",
		TaxExemption:  "VAT not charged pursuant to Art. 90(2) of the Croatian VAT Act.",
		Total:         "Total",
		PaymentMethod: "Payment method",
		PaymentStatus: "Payment status",
		PaymentMethods: map[string]string{
			models.PaymentMethodCash:     "Cash on delivery",
			models.PaymentMethodTransfer: "Bank transfer",
			models.PaymentMethodPaypal:   "PayPal",
		},
		PaymentStatuses: map[string]string{
			"paid":   "Paid",
			"unpaid": "Unpaid",
		},
		FooterLegal: "Thank you for your purchase! For questions about this invoice contact us by email.",
	},
	LanguageItalian: {
		Invoice:       "Fattura",
		Date:          "Data",
		BillTo:        "Cliente",
		Note:          "Nota",
		Item:          "Prodotto",
		Quantity:      "Qtà",
		UnitPrice:     "Prezzo",
		LineTotal:     "Importo",
		Subtotal:      "Imponibile",
		Shipping:      "Spedizione",
		Tax:           "IVA (0%)",
		TaxExemption:  "IVA non applicata ai sensi dell'art. 90, c. 2 della legge croata sull'IVA.",
		Total:         "Totale",
		PaymentMethod: "Metodo di pagamento",
		PaymentStatus: "Stato del pagamento",
		PaymentMethods: map[string]string{
			models.PaymentMethodCash:     "Contrassegno",
			models.PaymentMethodTransfer: "Bonifico bancario",
			models.PaymentMethodPaypal:   "PayPal",
		},
		PaymentStatuses: map[string]string{
			"paid":   "Pagato",
			"unpaid": "Non pagato",
		},
		FooterLegal: "Grazie per il tuo acquisto! Per domande sulla fattura contattaci via e-mail.",
	},
	LanguageSlovenian: {
		Invoice:       "Račun",
		Date:          "Datum",
		BillTo:        "Kupec",
		Note:          "Opomba",
		Item:          "Izdelek",
		Quantity:      "Kol.",
		UnitPrice:     "Cena",
		LineTotal:     "Znesek",
		Subtotal:      "Osnova",
		Shipping:      "Dostava",
		Tax:           "DDV (0%)",
		TaxExemption:  "DDV ni obračunan na podlagi čl. 90, odst. 2 hrvaškega zakona o DDV.",
		Total:         "Skupaj",
		PaymentMethod: "Način plačila",
		PaymentStatus: "Status plačila",
		PaymentMethods: map[string]string{
			models.PaymentMethodCash:     "Po povzetju",
			models.PaymentMethodTransfer: "Bančno nakazilo",
			models.PaymentMethodPaypal:   "PayPal",
		},
		PaymentStatuses: map[string]string{
			"paid":   "Plačano",
			"unpaid": "Ni plačano",
		},
		FooterLegal: "Hvala za nakup! Za vprašanja o računu nam pišite po e-pošti.",
	},
}

// FormatMoney renders a monetary value with two decimals and a trailing
// currency symbol.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}

// RenderInvoicePDF renders the fixed-layout one-page invoice document.
// This is the only invoice renderer; every download endpoint goes through
// it with an assembled InvoiceView.
func RenderInvoicePDF(view InvoiceView) ([]byte, error) {
	labels, ok := invoiceLabelTables[view.Language]
	if !ok {
		labels = invoiceLabelTables[DefaultLanguage]
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header: seller identity.
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(120, 9, tr(view.Seller.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, tr(fmt.Sprintf("%s %s", labels.Invoice, view.Number)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(120, 5, tr(view.Seller.Address), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s: %s", labels.Date, view.IssuedAt.Format("02.01.2006."))), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 5, tr(fmt.Sprintf("OIB: %s", view.Seller.TaxID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(120, 5, tr(fmt.Sprintf("%s | %s", view.Seller.Email, view.Seller.Phone)), "", 1, "L", false, 0, "")
	pdf.CellFormat(120, 5, tr(fmt.Sprintf("IBAN: %s", view.Seller.IBAN)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	// Buyer block, with the optional customer note beside it.
	buyerTop := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 6, tr(labels.BillTo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 5, tr(view.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 5, tr(view.CustomerAddress), "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 5, tr(fmt.Sprintf("%s %s", view.CustomerPostalCode, view.CustomerCity)), "", 1, "L", false, 0, "")
	if view.CustomerCountry != "" {
		pdf.CellFormat(90, 5, tr(view.CustomerCountry), "", 1, "L", false, 0, "")
	}
	if view.CustomerEmail != "" {
		pdf.CellFormat(90, 5, tr(view.CustomerEmail), "", 1, "L", false, 0, "")
	}
	if view.CustomerPhone != "" {
		pdf.CellFormat(90, 5, tr(view.CustomerPhone), "", 1, "L", false, 0, "")
	}
	buyerBottom := pdf.GetY()

	if view.Note != "" {
		pdf.SetY(buyerTop)
		pdf.SetX(110)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(85, 6, tr(labels.Note), "", 2, "L", false, 0, "")
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(85, 5, tr(view.Note), "", "L", false)
		if pdf.GetY() < buyerBottom {
			pdf.SetY(buyerBottom)
		}
	} else {
		pdf.SetY(buyerBottom)
	}
	pdf.Ln(8)

	// Line-items table.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 7, tr(labels.Item), "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, tr(labels.Quantity), "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, tr(labels.UnitPrice), "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, tr(labels.LineTotal), "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range view.Lines {
		name := line.Name
		if line.VariantText != "" {
			name = fmt.Sprintf("%s (%s)", line.Name, line.VariantText)
		}
		pdf.CellFormat(90, 7, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, tr(FormatMoney(line.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, tr(FormatMoney(line.LineTotal)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block.
	totals := []struct {
		label string
		value float64
	}{
		{labels.Subtotal, view.Subtotal},
		{labels.Shipping, view.ShippingCost},
		{labels.Tax, view.Tax},
	}
	for _, row := range totals {
		pdf.CellFormat(110, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(row.label), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, tr(FormatMoney(row.value)), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, tr(labels.Total), "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, tr(FormatMoney(view.Total)), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 5, tr(labels.TaxExemption), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// Payment details.
	pdf.SetFont("Helvetica", "", 10)
	method := labels.PaymentMethods[view.PaymentMethod]
	if method == "" {
		method = view.PaymentMethod
	}
	status := labels.PaymentStatuses[view.PaymentStatus]
	if status == "" {
		status = view.PaymentStatus
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", labels.PaymentMethod, method)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", labels.PaymentStatus, status)), "", 1, "L", false, 0, "")

	// Footer boilerplate.
	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 4, tr(fmt.Sprintf("%s\n%s | OIB: %s | IBAN: %s",
		labels.FooterLegal, view.Seller.Name, view.Seller.TaxID, view.Seller.IBAN)), "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

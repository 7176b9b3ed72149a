package models

import (
	"github.com/google/uuid"
)

// Invoice belongs to exactly one order and carries a denormalized snapshot
// of the customer and totals at generation time. InvoiceNumber is the
// human-facing sequential identifier in the form i<N>.
type Invoice struct {
	BaseModel
	OrderID       uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	InvoiceNumber string    `gorm:"uniqueIndex" json:"invoice_number"`

	CustomerName       string `json:"customer_name"`
	CustomerEmail      string `json:"customer_email"`
	CustomerAddress    string `json:"customer_address"`
	CustomerCity       string `json:"customer_city"`
	CustomerPostalCode string `json:"customer_postal_code"`
	CustomerCountry    string `json:"customer_country"`
	CustomerPhone      string `json:"customer_phone"`

	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Tax          float64 `json:"tax"`
	Total        float64 `json:"total"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Note          string `json:"note"`
	Language      string `json:"language"`

	Lines []InvoiceLine `json:"lines,omitempty"`
}

// InvoiceLine is an immutable snapshot of one invoiced product, copied
// verbatim from the order line it mirrors.
type InvoiceLine struct {
	BaseModel
	InvoiceID   uuid.UUID  `gorm:"type:uuid;index" json:"invoice_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	// Display text for the scent/color selection, e.g. "Lavender / Ivory".
	VariantText string `json:"variant_text"`
}

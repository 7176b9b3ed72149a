package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodPaypal   = "paypal"
)

type Order struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User     `json:"user,omitempty"`
	// Number is a numeric order identifier allocated from the sequences
	// table, independent of the uuid primary key. Invoice numbering
	// references it.
	Number   int64     `gorm:"uniqueIndex" json:"number"`
	Status   string    `json:"status"`
	PlacedAt time.Time `json:"placed_at"`

	ShippingName       string `json:"shipping_name"`
	ShippingEmail      string `json:"shipping_email"`
	ShippingAddress    string `json:"shipping_address"`
	ShippingCity       string `json:"shipping_city"`
	ShippingPostalCode string `json:"shipping_postal_code"`
	ShippingCountry    string `json:"shipping_country"`
	ShippingPhone      string `json:"shipping_phone"`

	PaymentMethod   string `json:"payment_method"`
	PaymentStatus   string `json:"payment_status"`
	PaypalOrderID   string `json:"paypal_order_id"`
	PaypalCaptureID string `json:"paypal_capture_id"`

	Subtotal     float64 `json:"subtotal"`
	Discount     float64 `json:"discount"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`

	Note     string `json:"note"`
	Language string `json:"language"`

	Lines   []OrderLine `json:"lines,omitempty"`
	Invoice *Invoice    `json:"invoice,omitempty"`
}

// OrderLine is an immutable snapshot of one purchased product. Product and
// variant names are denormalized so later catalog edits never change what
// the customer bought.
type OrderLine struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`

	ScentID      *uuid.UUID `gorm:"type:uuid" json:"scent_id"`
	ScentName    string     `json:"scent_name"`
	ColorID      *uuid.UUID `gorm:"type:uuid" json:"color_id"`
	ColorName    string     `json:"color_name"`
	ColorIDs     string     `json:"color_ids"`
	ColorNames   string     `json:"color_names"`
	IsMultiColor bool       `json:"is_multi_color"`
}

package models

import (
	"github.com/google/uuid"
)

// CartLine is one distinct product + variant selection in a user's cart.
// At most one line exists per (user, product, scent, color selection):
// the single color id when multi-color is off, or the normalized sorted
// set of color ids when it is on.
type CartLine struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	ProductID uuid.UUID  `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product   `json:"product,omitempty"`
	ScentID   *uuid.UUID `gorm:"type:uuid" json:"scent_id"`
	Scent     *Scent     `json:"scent,omitempty"`

	ColorID *uuid.UUID `gorm:"type:uuid" json:"color_id"`
	Color   *Color     `json:"color,omitempty"`
	// ColorIDs holds the sorted, comma-joined color id set when
	// IsMultiColor is set. Sorting keeps matching independent of the
	// order colors were picked in.
	ColorIDs     string `json:"color_ids"`
	IsMultiColor bool   `json:"is_multi_color"`

	Quantity int `json:"quantity"`

	// Resolved for display only, never persisted.
	MultiColors []Color `gorm:"-" json:"multi_colors,omitempty"`
}

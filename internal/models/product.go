package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Slug             string         `gorm:"uniqueIndex" json:"slug"`
	Name             string         `json:"name"`
	ShortDescription string         `json:"short_description"`
	LongDescription  string         `json:"long_description"`
	Price            float64        `json:"price"`
	Currency         string         `json:"currency"`
	Stock            int            `json:"stock"`
	IsActive         bool           `json:"is_active"`
	BurnTimeHours    int            `json:"burn_time_hours"`
	WeightGrams      int            `json:"weight_grams"`
	HeroImage        string         `json:"hero_image"`
	CategoryID       *uuid.UUID     `gorm:"type:uuid" json:"category_id"`
	Category         *Category      `json:"category,omitempty"`
	Scents           []Scent        `gorm:"many2many:product_scents;" json:"scents,omitempty"`
	Colors           []Color        `gorm:"many2many:product_colors;" json:"colors,omitempty"`
	Collections      []Collection   `gorm:"many2many:collection_products;" json:"collections,omitempty"`
	Images           []ProductImage `json:"images,omitempty"`
}

type ProductImage struct {
	BaseModel
	ProductID    uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text"`
	DisplayOrder int       `json:"display_order"`
}

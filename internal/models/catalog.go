package models

// Category groups products on the storefront.
type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Products    []Product `json:"products,omitempty"`
}

// Scent is a fragrance option that can be attached to products.
type Scent struct {
	BaseModel
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Products    []Product `gorm:"many2many:product_scents;" json:"products,omitempty"`
}

// Color is a wax color option that can be attached to products.
type Color struct {
	BaseModel
	Name     string    `json:"name"`
	HexCode  string    `json:"hex_code"`
	Products []Product `gorm:"many2many:product_colors;" json:"products,omitempty"`
}

// Collection is a curated product grouping shown on the storefront.
type Collection struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Products    []Product `gorm:"many2many:collection_products;" json:"products,omitempty"`
}

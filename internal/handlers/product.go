package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
	"github.com/example/svijeca/internal/utils"
)

// ProductHandler manages products and their variant assignments.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productPayload struct {
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	ShortDescription string      `json:"short_description"`
	LongDescription  string      `json:"long_description"`
	Price            float64     `json:"price"`
	Currency         string      `json:"currency"`
	Stock            *int        `json:"stock"`
	IsActive         *bool       `json:"is_active"`
	BurnTimeHours    int         `json:"burn_time_hours"`
	WeightGrams      int         `json:"weight_grams"`
	HeroImage        string      `json:"hero_image"`
	CategoryID       *uuid.UUID  `json:"category_id"`
	ScentIDs         []uuid.UUID `json:"scent_ids"`
	ColorIDs         []uuid.UUID `json:"color_ids"`
}

// ListProducts returns paginated products with their variants preloaded.
// Supports filtering by category, collection, scent, color and search
// over name.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Product{})

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if scentID := c.Query("scent_id"); scentID != "" {
		query = query.Joins("JOIN product_scents ps ON ps.product_id = products.id").
			Where("ps.scent_id = ?", scentID)
	}
	if colorID := c.Query("color_id"); colorID != "" {
		query = query.Joins("JOIN product_colors pc ON pc.product_id = products.id").
			Where("pc.color_id = ?", colorID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if c.Query("active") == "true" {
		query = query.Where("products.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.
		Preload("Images").Preload("Scents").Preload("Colors").Preload("Category").
		Limit(pg.Limit).Offset(pg.Offset).Order("products.created_at desc").
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns a single product by ID or slug.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	param := c.Params("id")

	query := h.db.
		Preload("Images").Preload("Scents").Preload("Colors").
		Preload("Category").Preload("Collections")

	var product models.Product
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		err = query.First(&product, "id = ?", id).Error
	} else {
		err = query.First(&product, "slug = ?", param).Error
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// CreateProduct persists a new product together with its scent and
// color assignments.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if payload.Slug == "" {
		return fiber.NewError(fiber.StatusBadRequest, "slug is required")
	}

	product := models.Product{
		Name:             payload.Name,
		Slug:             payload.Slug,
		ShortDescription: payload.ShortDescription,
		LongDescription:  payload.LongDescription,
		Price:            payload.Price,
		Currency:         payload.Currency,
		IsActive:         true,
		BurnTimeHours:    payload.BurnTimeHours,
		WeightGrams:      payload.WeightGrams,
		HeroImage:        payload.HeroImage,
		CategoryID:       payload.CategoryID,
	}
	if product.Currency == "" {
		product.Currency = "EUR"
	}
	if payload.Stock != nil {
		product.Stock = *payload.Stock
	}
	if payload.IsActive != nil {
		product.IsActive = *payload.IsActive
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return h.replaceVariants(tx, &product, payload.ScentIDs, payload.ColorIDs)
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct updates product fields and replaces variant assignments
// when scent_ids or color_ids are present in the payload.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.Slug != "" {
		updates["slug"] = payload.Slug
	}
	if payload.ShortDescription != "" {
		updates["short_description"] = payload.ShortDescription
	}
	if payload.LongDescription != "" {
		updates["long_description"] = payload.LongDescription
	}
	if payload.Currency != "" {
		updates["currency"] = payload.Currency
	}
	if payload.HeroImage != "" {
		updates["hero_image"] = payload.HeroImage
	}
	if payload.Price > 0 {
		updates["price"] = payload.Price
	}
	if payload.Stock != nil {
		updates["stock"] = *payload.Stock
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if payload.BurnTimeHours > 0 {
		updates["burn_time_hours"] = payload.BurnTimeHours
	}
	if payload.WeightGrams > 0 {
		updates["weight_grams"] = payload.WeightGrams
	}
	if payload.CategoryID != nil {
		updates["category_id"] = *payload.CategoryID
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err
			}
		}
		return h.replaceVariants(tx, &product, payload.ScentIDs, payload.ColorIDs)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

func (h *ProductHandler) replaceVariants(tx *gorm.DB, product *models.Product, scentIDs, colorIDs []uuid.UUID) error {
	if scentIDs != nil {
		var scents []models.Scent
		if len(scentIDs) > 0 {
			if err := tx.Find(&scents, "id IN ?", scentIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(product).Association("Scents").Replace(scents); err != nil {
			return err
		}
	}
	if colorIDs != nil {
		var colors []models.Color
		if len(colorIDs) > 0 {
			if err := tx.Find(&colors, "id IN ?", colorIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(product).Association("Colors").Replace(colors); err != nil {
			return err
		}
	}
	return nil
}

// DeleteProduct removes a product and its images.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddProductImage attaches an image URL to a product.
func (h *ProductHandler) AddProductImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var payload struct {
		URL          string `json:"url"`
		AltText      string `json:"alt_text"`
		DisplayOrder int    `json:"display_order"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.URL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "url is required")
	}

	image := models.ProductImage{
		ProductID:    product.ID,
		URL:          payload.URL,
		AltText:      payload.AltText,
		DisplayOrder: payload.DisplayOrder,
	}
	if err := h.db.Create(&image).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": image})
}

// DeleteProductImage removes a product image.
func (h *ProductHandler) DeleteProductImage(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	imageID, err := uuid.Parse(c.Params("imageId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid image id")
	}

	if err := h.db.Delete(&models.ProductImage{}, "id = ? AND product_id = ?", imageID, productID).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

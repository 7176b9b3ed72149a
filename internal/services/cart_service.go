package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
)

// CartService holds per-user cart lines keyed by (product, scent, color
// selection). Adding an identical selection merges quantities instead of
// creating a duplicate line.
type CartService struct {
	db *gorm.DB
}

// NewCartService constructs CartService.
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// ColorSelection is either a single color id or a multi-color id set.
type ColorSelection struct {
	ColorID    *uuid.UUID
	ColorIDs   []uuid.UUID
	MultiColor bool
}

// NormalizeColorIDs serializes a color id set into its canonical sorted,
// comma-joined form so two selections match regardless of pick order.
func NormalizeColorIDs(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return ""
	}

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, ",")
}

// AddLine merges quantity into an existing line with the same variant
// selection, or inserts a new one. The lookup and the write are separate
// statements, so two simultaneous identical adds can still race into two
// lines; the cart stays usable either way.
func (s *CartService) AddLine(userID, productID uuid.UUID, quantity int, scentID *uuid.UUID, colors ColorSelection) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity", "must be a positive integer")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	colorIDs := ""
	if colors.MultiColor {
		colorIDs = NormalizeColorIDs(colors.ColorIDs)
	}

	query := s.db.Where("user_id = ? AND product_id = ? AND is_multi_color = ?",
		userID, productID, colors.MultiColor)
	if scentID == nil {
		query = query.Where("scent_id IS NULL")
	} else {
		query = query.Where("scent_id = ?", *scentID)
	}
	if colors.MultiColor {
		query = query.Where("color_ids = ?", colorIDs)
	} else if colors.ColorID == nil {
		query = query.Where("color_id IS NULL")
	} else {
		query = query.Where("color_id = ?", *colors.ColorID)
	}

	var line models.CartLine
	err := query.First(&line).Error
	if err == nil {
		line.Quantity += quantity
		if err := s.db.Save(&line).Error; err != nil {
			return nil, err
		}
		return &line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	line = models.CartLine{
		UserID:       userID,
		ProductID:    productID,
		ScentID:      scentID,
		ColorIDs:     colorIDs,
		IsMultiColor: colors.MultiColor,
		Quantity:     quantity,
	}
	if !colors.MultiColor {
		line.ColorID = colors.ColorID
	}

	if err := s.db.Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// UpdateQuantity sets the quantity of a line owned by userID.
func (s *CartService) UpdateQuantity(lineID, userID uuid.UUID, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, newValidationError("quantity", "must be a positive integer")
	}

	var line models.CartLine
	if err := s.db.First(&line, "id = ? AND user_id = ?", lineID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	line.Quantity = quantity
	if err := s.db.Save(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// RemoveLine deletes a line if it is owned by userID. Removing an absent
// line is not an error.
func (s *CartService) RemoveLine(lineID, userID uuid.UUID) error {
	return s.db.Delete(&models.CartLine{}, "id = ? AND user_id = ?", lineID, userID).Error
}

// Clear deletes every line for the user. Called after order placement.
func (s *CartService) Clear(userID uuid.UUID) error {
	return s.db.Delete(&models.CartLine{}, "user_id = ?", userID).Error
}

// ListLines returns the user's cart with product, scent and color display
// data resolved. Multi-color lines carry the full color list.
func (s *CartService) ListLines(userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := s.db.Preload("Product").Preload("Scent").Preload("Color").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}

	for i := range lines {
		if !lines[i].IsMultiColor || lines[i].ColorIDs == "" {
			continue
		}

		ids := strings.Split(lines[i].ColorIDs, ",")
		var colors []models.Color
		if err := s.db.Where("id IN ?", ids).Order("name asc").Find(&colors).Error; err != nil {
			return nil, err
		}
		lines[i].MultiColors = colors
	}

	return lines, nil
}

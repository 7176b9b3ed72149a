package services

import (
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
)

// Sequence names.
const (
	orderSequenceName   = "order_number"
	invoiceSequenceName = "invoice_number"
)

// nextSequence bumps the named counter and returns the new value. Must run
// inside tx: the UPDATE takes a row lock, so concurrent allocations
// serialize on the counter row instead of racing a read-then-insert.
func nextSequence(tx *gorm.DB, name string, initial int64) (int64, error) {
	seq := models.Sequence{Name: name, Value: initial}
	if err := tx.Where(models.Sequence{Name: name}).
		Attrs(seq).FirstOrCreate(&seq).Error; err != nil {
		return 0, err
	}

	if err := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, err
	}

	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

// raiseSequence lifts the named counter to at least floor and returns the
// effective value. Used by invoice numbering to keep numbers at or above
// both the historical floor and the order number.
func raiseSequence(tx *gorm.DB, name string, current, floor int64) (int64, error) {
	if current >= floor {
		return current, nil
	}

	if err := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("value", floor).Error; err != nil {
		return 0, err
	}
	return floor, nil
}

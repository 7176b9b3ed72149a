package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/example/svijeca/internal/models"
)

func TestAddLineMergesIdenticalSelection(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Lavanda", 12.50)
	scent := createTestScent(t, db, "Lavanda")
	color := createTestColor(t, db, "Bijela")

	selection := ColorSelection{ColorID: &color.ID}
	if _, err := cart.AddLine(user.ID, product.ID, 2, &scent.ID, selection); err != nil {
		t.Fatalf("first add: %v", err)
	}
	line, err := cart.AddLine(user.ID, product.ID, 3, &scent.ID, selection)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if line.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", line.Quantity)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("line count = %d, want 1", count)
	}
}

func TestAddLineDifferentScentCreatesSeparateLine(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Vanilija", 10)
	lavender := createTestScent(t, db, "Lavanda")
	vanilla := createTestScent(t, db, "Vanilija")

	if _, err := cart.AddLine(user.ID, product.ID, 1, &lavender.ID, ColorSelection{}); err != nil {
		t.Fatalf("add lavender: %v", err)
	}
	if _, err := cart.AddLine(user.ID, product.ID, 1, &vanilla.ID, ColorSelection{}); err != nil {
		t.Fatalf("add vanilla: %v", err)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Errorf("line count = %d, want 2", count)
	}
}

func TestAddLineNilScentDoesNotMatchConcreteScent(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Med", 8)
	scent := createTestScent(t, db, "Med")

	if _, err := cart.AddLine(user.ID, product.ID, 1, &scent.ID, ColorSelection{}); err != nil {
		t.Fatalf("add with scent: %v", err)
	}
	if _, err := cart.AddLine(user.ID, product.ID, 1, nil, ColorSelection{}); err != nil {
		t.Fatalf("add without scent: %v", err)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Errorf("line count = %d, want 2", count)
	}
}

func TestAddLineMultiColorOrderIndependent(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Duga", 15)
	white := createTestColor(t, db, "Bijela")
	gold := createTestColor(t, db, "Zlatna")

	first := ColorSelection{MultiColor: true, ColorIDs: []uuid.UUID{white.ID, gold.ID}}
	second := ColorSelection{MultiColor: true, ColorIDs: []uuid.UUID{gold.ID, white.ID}}

	if _, err := cart.AddLine(user.ID, product.ID, 1, nil, first); err != nil {
		t.Fatalf("first add: %v", err)
	}
	line, err := cart.AddLine(user.ID, product.ID, 1, nil, second)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if line.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", line.Quantity)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("line count = %d, want 1", count)
	}
}

func TestAddLineSingleAndMultiColorStaySeparate(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Jantar", 20)
	color := createTestColor(t, db, "Jantar")

	if _, err := cart.AddLine(user.ID, product.ID, 1, nil, ColorSelection{ColorID: &color.ID}); err != nil {
		t.Fatalf("single color add: %v", err)
	}
	multi := ColorSelection{MultiColor: true, ColorIDs: []uuid.UUID{color.ID}}
	if _, err := cart.AddLine(user.ID, product.ID, 1, nil, multi); err != nil {
		t.Fatalf("multi color add: %v", err)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Errorf("line count = %d, want 2", count)
	}
}

func TestAddLineRejectsInvalidQuantity(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	product := createTestProduct(t, db, "Bor", 9)

	for _, quantity := range []int{0, -1} {
		if _, err := cart.AddLine(user.ID, product.ID, quantity, nil, ColorSelection{}); !IsValidationError(err) {
			t.Errorf("quantity %d: err = %v, want validation error", quantity, err)
		}
	}
}

func TestAddLineUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)

	if _, err := cart.AddLine(user.ID, uuid.New(), 1, nil, ColorSelection{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateQuantityEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	owner := createTestUser(t, db)
	other := createTestUser(t, db)
	product := createTestProduct(t, db, "Cimet", 11)

	line, err := cart.AddLine(owner.ID, product.ID, 1, nil, ColorSelection{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := cart.UpdateQuantity(line.ID, other.ID, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign update err = %v, want ErrNotFound", err)
	}

	updated, err := cart.UpdateQuantity(line.ID, owner.ID, 5)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", updated.Quantity)
	}
}

func TestRemoveLineAbsentIsNoop(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)

	if err := cart.RemoveLine(uuid.New(), user.ID); err != nil {
		t.Errorf("remove absent line: %v", err)
	}
}

func TestClearRemovesOnlyOwnLines(t *testing.T) {
	db := newTestDB(t)
	cart := NewCartService(db)
	user := createTestUser(t, db)
	other := createTestUser(t, db)
	product := createTestProduct(t, db, "Smreka", 14)

	if _, err := cart.AddLine(user.ID, product.ID, 1, nil, ColorSelection{}); err != nil {
		t.Fatalf("add for user: %v", err)
	}
	if _, err := cart.AddLine(other.ID, product.ID, 1, nil, ColorSelection{}); err != nil {
		t.Fatalf("add for other: %v", err)
	}

	if err := cart.Clear(user.ID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	var count int64
	db.Model(&models.CartLine{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("user line count = %d, want 0", count)
	}
	db.Model(&models.CartLine{}).Where("user_id = ?", other.ID).Count(&count)
	if count != 1 {
		t.Errorf("other line count = %d, want 1", count)
	}
}

func TestNormalizeColorIDs(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000000")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000000")

	if got := NormalizeColorIDs(nil); got != "" {
		t.Errorf("empty set = %q, want empty string", got)
	}
	forward := NormalizeColorIDs([]uuid.UUID{a, b})
	backward := NormalizeColorIDs([]uuid.UUID{b, a})
	if forward != backward {
		t.Errorf("order dependent: %q vs %q", forward, backward)
	}
	want := a.String() + "," + b.String()
	if forward != want {
		t.Errorf("normalized = %q, want %q", forward, want)
	}
}

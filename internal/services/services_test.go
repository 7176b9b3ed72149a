package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/svijeca/internal/database"
	"github.com/example/svijeca/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Concurrent writers (order side effects run in goroutines) share one
	// connection so sqlite never reports a locked table.
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := database.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}

// testEmailService never sends anything: an empty API key puts the
// service in skip mode.
func testEmailService() *EmailService {
	return NewEmailService("", "test@example.com", "Test Shop", "http://localhost:8080")
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		FirstName: "Ana",
		LastName:  "Horvat",
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Language:  "hr",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:     name,
		Slug:     uuid.NewString(),
		Price:    price,
		Currency: "EUR",
		Stock:    100,
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create test product: %v", err)
	}
	return product
}

func createTestScent(t *testing.T, db *gorm.DB, name string) *models.Scent {
	t.Helper()

	scent := &models.Scent{Name: name}
	if err := db.Create(scent).Error; err != nil {
		t.Fatalf("create test scent: %v", err)
	}
	return scent
}

func createTestColor(t *testing.T, db *gorm.DB, name string) *models.Color {
	t.Helper()

	color := &models.Color{Name: name, HexCode: "#ffffff"}
	if err := db.Create(color).Error; err != nil {
		t.Fatalf("create test color: %v", err)
	}
	return color
}

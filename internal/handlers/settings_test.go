package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/svijeca/internal/database"
	"github.com/example/svijeca/internal/services"
)

func newSettingsApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	handler := NewSettingsHandler(services.NewSettingsService(conn))

	app := fiber.New()
	app.Get("/api/settings", handler.ListSettings)
	app.Get("/api/settings/shipping", handler.GetShippingRules)
	app.Get("/api/settings/:key", handler.GetSetting)
	app.Put("/api/settings", handler.UpdateSettings)
	return app
}

func TestSettingsEndpoints(t *testing.T) {
	app := newSettingsApp(t)

	put := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"shopName":"Svijeća","standardShippingRate":"7"}`))
	put.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(put)
	if err != nil {
		t.Fatalf("put settings: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d, want 200", resp.StatusCode)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/settings/shopName", nil)
	resp, err = app.Test(get)
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Value != "Svijeća" {
		t.Errorf("body = %+v, want stored value", body)
	}

	missing := httptest.NewRequest(http.MethodGet, "/api/settings/doesNotExist", nil)
	resp, err = app.Test(missing)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", resp.StatusCode)
	}
}

func TestShippingRulesEndpointUsesStoredRate(t *testing.T) {
	app := newSettingsApp(t)

	put := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"standardShippingRate":"7"}`))
	put.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(put); err != nil {
		t.Fatalf("put settings: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/settings/shipping", nil))
	if err != nil {
		t.Fatalf("get shipping rules: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data struct {
			FreeShippingThreshold float64 `json:"free_shipping_threshold"`
			StandardShippingRate  float64 `json:"standard_shipping_rate"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.StandardShippingRate != 7 {
		t.Errorf("rate = %v, want 7", body.Data.StandardShippingRate)
	}
	if body.Data.FreeShippingThreshold != 50 {
		t.Errorf("threshold = %v, want default 50", body.Data.FreeShippingThreshold)
	}
}

func TestUpdateSettingsRejectsEmptyPayload(t *testing.T) {
	app := newSettingsApp(t)

	put := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{}`))
	put.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(put)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

package services

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/svijeca/internal/models"
)

// Well-known setting keys.
const (
	SettingFreeShippingThreshold = "freeShippingThreshold"
	SettingStandardShippingRate  = "standardShippingRate"
	SettingShopName              = "shopName"
	SettingShopAddress           = "shopAddress"
	SettingShopTaxID             = "shopTaxId"
	SettingShopEmail             = "shopEmail"
	SettingShopPhone             = "shopPhone"
	SettingShopIBAN              = "shopIban"
)

// Hardcoded fallbacks, the last layer of the resolution chain.
const (
	DefaultFreeShippingThreshold = 50
	DefaultStandardShippingRate  = 5
)

// SettingsService reads and writes the flat key-value settings table.
// Values are plain strings; numeric settings are parsed by callers.
type SettingsService struct {
	db *gorm.DB
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the stored value for key, if any.
func (s *SettingsService) Get(key string) (string, bool) {
	var setting models.Setting
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", false
	}
	return setting.Value, true
}

// Set upserts a setting, last write wins.
func (s *SettingsService) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// SetMany upserts a batch of settings.
func (s *SettingsService) SetMany(values map[string]string) error {
	for key, value := range values {
		if err := s.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// All returns every stored setting as a map.
func (s *SettingsService) All() (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// Provider supplies configuration values for one resolution layer.
type Provider interface {
	Lookup(key string) (string, bool)
}

// MapProvider serves values from a fixed map. Used for per-request client
// overrides and for hardcoded defaults.
type MapProvider map[string]string

// Lookup implements Provider.
func (m MapProvider) Lookup(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

// Lookup implements Provider for the settings table layer.
func (s *SettingsService) Lookup(key string) (string, bool) {
	return s.Get(key)
}

// ConfigResolver resolves a key through an ordered provider chain and
// returns the first defined value.
type ConfigResolver struct {
	providers []Provider
}

// NewConfigResolver builds a resolver over providers, highest priority first.
func NewConfigResolver(providers ...Provider) *ConfigResolver {
	return &ConfigResolver{providers: providers}
}

// Resolve returns the first defined value for key.
func (r *ConfigResolver) Resolve(key string) (string, bool) {
	for _, provider := range r.providers {
		if provider == nil {
			continue
		}
		if value, ok := provider.Lookup(key); ok {
			return value, true
		}
	}
	return "", false
}

// ResolveFloat resolves key and parses it as a float, falling back when the
// key is undefined or unparseable.
func (r *ConfigResolver) ResolveFloat(key string, fallback float64) float64 {
	value, ok := r.Resolve(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// ShippingRules are the two tunables consumed at checkout.
type ShippingRules struct {
	FreeShippingThreshold float64
	StandardRate          float64
}

// ShippingRules resolves the shipping tunables fresh for one order, with
// the precedence client override -> stored setting -> hardcoded default.
func (s *SettingsService) ShippingRules(overrides map[string]string) ShippingRules {
	resolver := NewConfigResolver(MapProvider(overrides), s, MapProvider{
		SettingFreeShippingThreshold: strconv.Itoa(DefaultFreeShippingThreshold),
		SettingStandardShippingRate:  strconv.Itoa(DefaultStandardShippingRate),
	})

	return ShippingRules{
		FreeShippingThreshold: resolver.ResolveFloat(SettingFreeShippingThreshold, DefaultFreeShippingThreshold),
		StandardRate:          resolver.ResolveFloat(SettingStandardShippingRate, DefaultStandardShippingRate),
	}
}

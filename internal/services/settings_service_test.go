package services

import (
	"testing"
)

func TestSettingsSetIsUpsert(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	if err := settings.Set("shopName", "Prva"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := settings.Set("shopName", "Druga"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	value, ok := settings.Get("shopName")
	if !ok {
		t.Fatal("key not found after set")
	}
	if value != "Druga" {
		t.Errorf("value = %q, want last write", value)
	}

	all, err := settings.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("stored keys = %d, want 1", len(all))
	}
}

func TestConfigResolverPrecedence(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)
	if err := settings.Set("rate", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}

	override := MapProvider{"rate": "9"}
	defaults := MapProvider{"rate": "5", "onlyDefault": "1"}

	resolver := NewConfigResolver(override, settings, defaults)
	if got := resolver.ResolveFloat("rate", 0); got != 9 {
		t.Errorf("override layer: got %v, want 9", got)
	}

	withoutOverride := NewConfigResolver(nil, settings, defaults)
	if got := withoutOverride.ResolveFloat("rate", 0); got != 7 {
		t.Errorf("setting layer: got %v, want 7", got)
	}
	if got := withoutOverride.ResolveFloat("onlyDefault", 0); got != 1 {
		t.Errorf("default layer: got %v, want 1", got)
	}
	if got := withoutOverride.ResolveFloat("missing", 42); got != 42 {
		t.Errorf("fallback: got %v, want 42", got)
	}
}

func TestConfigResolverUnparseableValue(t *testing.T) {
	resolver := NewConfigResolver(MapProvider{"rate": "not-a-number"})
	if got := resolver.ResolveFloat("rate", 5); got != 5 {
		t.Errorf("got %v, want fallback 5", got)
	}
}

func TestShippingRulesDefaults(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	rules := settings.ShippingRules(nil)
	if rules.FreeShippingThreshold != DefaultFreeShippingThreshold {
		t.Errorf("threshold = %v, want %v", rules.FreeShippingThreshold, DefaultFreeShippingThreshold)
	}
	if rules.StandardRate != DefaultStandardShippingRate {
		t.Errorf("rate = %v, want %v", rules.StandardRate, DefaultStandardShippingRate)
	}
}

func TestShippingRulesLayering(t *testing.T) {
	db := newTestDB(t)
	settings := NewSettingsService(db)

	if err := settings.SetMany(map[string]string{
		SettingFreeShippingThreshold: "80",
		SettingStandardShippingRate:  "7",
	}); err != nil {
		t.Fatalf("set many: %v", err)
	}

	stored := settings.ShippingRules(nil)
	if stored.FreeShippingThreshold != 80 || stored.StandardRate != 7 {
		t.Errorf("stored rules = %+v, want 80/7", stored)
	}

	overridden := settings.ShippingRules(map[string]string{
		SettingStandardShippingRate: "3",
	})
	if overridden.StandardRate != 3 {
		t.Errorf("override rate = %v, want 3", overridden.StandardRate)
	}
	if overridden.FreeShippingThreshold != 80 {
		t.Errorf("threshold = %v, want stored 80", overridden.FreeShippingThreshold)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"hr":      "hr",
		"DE":      "de",
		"en":      "en",
		"it":      "it",
		"sl":      "sl",
		"":        "hr",
		"fr":      "hr",
		"hr-HR":   "hr",
		"de_AT":   "de",
		"unknown": "hr",
	}
	for input, want := range cases {
		if got := normalizeLanguage(input); got != want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}

package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := GenerateToken(secret, userID, true, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parsedID, isAdmin, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsedID != userID {
		t.Errorf("user id = %s, want %s", parsedID, userID)
	}
	if !isAdmin {
		t.Error("admin claim lost")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", uuid.New(), false, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := ParseToken("secret-b", token); err == nil {
		t.Error("token signed with a different secret should not verify")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", uuid.New(), false, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, _, err := ParseToken("secret", token); err == nil {
		t.Error("expired token should not verify")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("lozinka123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !CheckPassword(hash, "lozinka123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "kriva-lozinka") {
		t.Error("wrong password accepted")
	}
}

package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/svijeca/internal/models"
	"github.com/example/svijeca/internal/services"
	"github.com/example/svijeca/internal/utils"
)

const passwordResetTTL = time.Hour

// PasswordResetHandler implements the email based reset flow: request a
// single-use token, then confirm it with a new password.
type PasswordResetHandler struct {
	db    *gorm.DB
	email *services.EmailService
}

// NewPasswordResetHandler constructs PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, email *services.EmailService) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, email: email}
}

// RequestReset issues a reset token and emails it. Responds 200 whether
// or not the account exists so the endpoint cannot be used to probe
// registered emails.
func (h *PasswordResetHandler) RequestReset(c *fiber.Ctx) error {
	var payload struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	var user models.User
	findErr := h.db.First(&user, "email = ?", email).Error
	if findErr != nil && findErr != gorm.ErrRecordNotFound {
		return findErr
	}

	if findErr == nil {
		token, err := generateSecureToken()
		if err != nil {
			return err
		}

		reset := models.PasswordResetToken{
			Email:     user.Email,
			Token:     token,
			ExpiresAt: time.Now().Add(passwordResetTTL),
		}
		if err := h.db.Create(&reset).Error; err != nil {
			return err
		}

		go func() {
			if err := h.email.SendPasswordReset(user.Email, user.FirstName, user.Language, token); err != nil {
				log.Printf("[PasswordReset] send failed for %s: %v", user.Email, err)
			}
		}()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "if the account exists, a reset email has been sent",
	})
}

// ConfirmReset consumes a token and sets the new password.
func (h *PasswordResetHandler) ConfirmReset(c *fiber.Ctx) error {
	var payload struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.Token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token is required")
	}
	if len(payload.NewPassword) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	var reset models.PasswordResetToken
	if err := h.db.First(&reset, "token = ?", payload.Token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired token")
		}
		return err
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired token")
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("email = ?", reset.Email).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&reset).Update("used_at", &now).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "password updated"})
}

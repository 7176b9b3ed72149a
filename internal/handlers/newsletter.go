package handlers

import (
	"log"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/svijeca/internal/models"
	"github.com/example/svijeca/internal/services"
)

// NewsletterHandler handles public newsletter signups.
type NewsletterHandler struct {
	db    *gorm.DB
	email *services.EmailService
}

// NewNewsletterHandler constructs NewsletterHandler.
func NewNewsletterHandler(db *gorm.DB, email *services.EmailService) *NewsletterHandler {
	return &NewsletterHandler{db: db, email: email}
}

// Subscribe records a newsletter subscriber and sends the welcome email.
// Subscribing twice with the same address is a no-op.
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email address")
	}

	subscriber := models.NewsletterSubscriber{Email: email, Language: payload.Language}
	result := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&subscriber)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		go func() {
			if err := h.email.SendNewsletterWelcome(email, payload.Language); err != nil {
				log.Printf("[Newsletter] welcome email failed for %s: %v", email, err)
			}
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": subscriber})
}

// Unsubscribe removes a subscriber. Unknown addresses are a silent no-op.
func (h *NewsletterHandler) Unsubscribe(c *fiber.Ctx) error {
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

	if err := h.db.Delete(&models.NewsletterSubscriber{}, "email = ?", email).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

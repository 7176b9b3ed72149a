package models

import (
	"time"
)

// User represents a customer or admin account.
type User struct {
	BaseModel
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`
	IsVerified   bool   `json:"is_verified"`
	Language     string `json:"language"`

	// Profile contact fields, used as a fallback when building
	// invoice customer snapshots.
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	// Personal discount granted by an admin. Applied at checkout only
	// while unexpired and the order subtotal meets the minimum.
	DiscountAmount    float64    `json:"discount_amount"`
	DiscountMinOrder  float64    `json:"discount_min_order"`
	DiscountExpiresAt *time.Time `json:"discount_expires_at"`

	Addresses []UserAddress `json:"addresses,omitempty"`
	Orders    []Order       `json:"orders,omitempty"`
}

// EmailVerification keeps track of verification tokens sent to new accounts.
type EmailVerification struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}

// PasswordResetToken stores single-use reset tokens delivered by email.
type PasswordResetToken struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}

// NewsletterSubscriber records newsletter signups.
type NewsletterSubscriber struct {
	BaseModel
	Email    string `gorm:"uniqueIndex" json:"email"`
	Language string `json:"language"`
}

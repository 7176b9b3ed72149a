package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/svijeca/internal/services"
)

// serviceError translates service-layer failures into HTTP errors.
// Anything unrecognized bubbles up as a 500 through fiber's error handler.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	case errors.Is(err, services.ErrEmptyOrder):
		return fiber.NewError(fiber.StatusBadRequest, "order has no lines")
	case errors.Is(err, services.ErrPaymentIncomplete):
		return fiber.NewError(fiber.StatusBadRequest, "paypal payment has not been completed")
	case services.IsValidationError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

package api

import (
	"errors"

	"casino/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain sentinels to HTTP statuses. Unrecognized
// errors become opaque 500s so internals never leak to callers.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidWager),
		errors.Is(err, models.ErrInvalidSelection):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientFunds):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, models.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrTableNotFound),
		errors.Is(err, models.ErrOfferNotFound),
		errors.Is(err, models.ErrHandNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrOfferAlreadyResolved),
		errors.Is(err, models.ErrOfferPending),
		errors.Is(err, models.ErrHandAlreadySettled),
		errors.Is(err, models.ErrConcurrentModification):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrOfferExpired):
		status = fiber.StatusGone
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

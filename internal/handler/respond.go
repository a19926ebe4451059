package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"movierec-backend/internal/errs"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// fail maps the error taxonomy to HTTP statuses: validation and duplicates
// are 400, missing accounts/movies 404, credential mismatch 401, storage
// outage 503, anything else 500.
func fail(c fiber.Ctx, err error) error {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: ve.Reason, Field: ve.Field})
	case errors.Is(err, errs.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "already exists"})
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "not found"})
	case errors.Is(err, errs.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, errs.ErrDependency):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "storage unavailable"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}

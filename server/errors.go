package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/crewflow"
)

var errInvalidBody = errors.New("invalid body")

func errFlowNotOpen(id string) error {
	return fmt.Errorf("%w: %q is not open", crewflow.ErrFlowNotFound, id)
}

// statusFor maps the crewflow error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidBody), errors.Is(err, crewflow.ErrMalformedSnapshot):
		return fiber.StatusBadRequest
	case errors.Is(err, crewflow.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, crewflow.ErrValidationRejected):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func writeError(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

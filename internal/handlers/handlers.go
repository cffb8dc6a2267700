// Package handlers wires the HTTP surface. Every response uses the same
// envelope so clients can always check success and fallbackUsed regardless
// of endpoint.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"contentos/internal/database"
	"contentos/internal/gateway"
	"contentos/internal/imagequeue"
	"contentos/internal/workflow"
)

// Envelope is the uniform response shape.
type Envelope struct {
	Success      bool   `json:"success"`
	Data         any    `json:"data,omitempty"`
	FallbackUsed bool   `json:"fallbackUsed,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func okResult[T any](c *fiber.Ctx, res gateway.Result[T]) error {
	return c.JSON(Envelope{
		Success:      true,
		Data:         res.Value,
		FallbackUsed: res.FallbackUsed,
		Message:      res.Message,
	})
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: msg})
}

// failErr maps domain errors onto HTTP statuses.
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, workflow.ErrStageLocked):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrNoActiveProject):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, workflow.ErrUnknownStage):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, gateway.ErrPayloadTooLarge):
		return fail(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, imagequeue.ErrAlreadyGenerating):
		return fail(c, fiber.StatusConflict, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
}

package respond

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the response shape every endpoint returns. Clients rely on
// success/message being present on failures and data on successes.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK writes a successful envelope with the given payload.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

// Message writes a successful envelope carrying only a human-readable message.
func Message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: msg})
}

// Fail writes a failed envelope with the user-facing message.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: msg})
}

// ErrorHandler converts fiber errors into the envelope so middleware and
// handlers can keep returning fiber.NewError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	return Fail(c, status, msg)
}

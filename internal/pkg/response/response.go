package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends a 200 OK response with the given payload.
func JSON(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Created sends a 201 Created response with the given payload.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// NoContent sends 204 with an empty body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// Unauthorized sends 401 with the same shape as other errors.
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized)
}

// Package httpx holds the wire shapes shared by every endpoint.
package httpx

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

type MutationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

func ErrorWithDetails(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{Error: message, Details: details})
}

func Success(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(MutationResponse{Success: true, Message: message})
}

func Created(c *fiber.Ctx, id, message string) error {
	return c.Status(fiber.StatusCreated).JSON(MutationResponse{Success: true, ID: id, Message: message})
}

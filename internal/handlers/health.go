package handlers

import "github.com/gofiber/fiber/v2"

// RootMessage is returned by the health server's GET /
const RootMessage = "Hello from Render! This is a Go Fiber app."

// Root handles GET / on the health server
func Root(c *fiber.Ctx) error {
	return c.SendString(RootMessage)
}

// Health is a simple endpoint to check if the server is running
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("OK")
}

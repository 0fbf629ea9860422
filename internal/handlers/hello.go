package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/internal/models"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

// HelloMessage is returned by GET /api/hello
const HelloMessage = "Hello from Vercel Express Serverless Function!"

// HelloHandler serves the serverless demo API
type HelloHandler struct {
	store storage.Store
}

// NewHelloHandler creates a new hello handler
func NewHelloHandler(store storage.Store) *HelloHandler {
	return &HelloHandler{store: store}
}

// Hello handles GET /api/hello
func (h *HelloHandler) Hello(c *fiber.Ctx) error {
	log.Info().Msg("✅ Received GET request for /api/hello")
	log.Info().Str("user_agent", c.Get(fiber.HeaderUserAgent)).Msg("📡 Request details")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": HelloMessage,
	})
}

// CreateData handles POST /api/data
func (h *HelloHandler) CreateData(c *fiber.Ctx) error {
	log.Warn().Msg("⚠️  Received new data payload")

	// only JSON bodies are parsed, anything else counts as empty
	var payload map[string]interface{}
	body := c.Body()
	if len(body) > 0 && c.Is("json") {
		if err := json.Unmarshal(body, &payload); err != nil {
			log.Error().Err(err).Msg("❌ Invalid JSON payload received")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Request body cannot be empty.",
			})
		}
	}
	log.Info().Interface("payload", payload).Msg("Payload")

	if len(payload) == 0 {
		log.Error().Msg("❌ Empty payload received")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Request body cannot be empty.",
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to encode payload")
	}

	sub, err := h.store.CreateSubmission(&models.DataSubmission{
		Payload:   string(raw),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to store payload")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to store payload")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Data processed successfully!",
		"id":       sub.ID,
		"received": payload,
	})
}

// GetData handles GET /api/data/:id
func (h *HelloHandler) GetData(c *fiber.Ctx) error {
	sub, err := h.store.GetSubmission(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Submission not found",
		})
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(sub.Payload), &payload); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Stored payload is corrupt")
	}

	return c.JSON(fiber.Map{
		"id":         sub.ID,
		"received":   payload,
		"user_agent": sub.UserAgent,
		"created_at": sub.CreatedAt,
	})
}

// NotFound is the fallback for unmatched routes
func NotFound(c *fiber.Ctx) error {
	log.Info().Str("path", c.OriginalURL()).Msg("❓ NOT FOUND")
	return c.Status(fiber.StatusNotFound).SendString("404 - API Endpoint Not Found")
}

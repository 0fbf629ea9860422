package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/internal/metrics"
	"github.com/Ananth-NQI/autoresponder/internal/models"
	"github.com/Ananth-NQI/autoresponder/internal/services"
)

// WhatsAppHandler handles Twilio WhatsApp webhook requests
type WhatsAppHandler struct {
	conversations *services.ConversationService
	sender        services.MessageSender // nil when Twilio is not configured
	metrics       *metrics.Metrics
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(conversations *services.ConversationService, sender services.MessageSender, m *metrics.Metrics) *WhatsAppHandler {
	return &WhatsAppHandler{
		conversations: conversations,
		sender:        sender,
		metrics:       m,
	}
}

// TwilioWebhookPayload represents incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // whatsapp:+919876543210
	To         string `form:"To"`
	Body       string `form:"Body"`
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Error().Err(err).Msg("Error parsing webhook")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks carry no body
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	reply := h.conversations.ProcessMessage(models.ChannelTwilio, from, payload.Body)

	if h.sender == nil {
		log.Warn().Str("reply", reply.Text).Msg("📤 Response not sent - Twilio not configured")
		return c.SendStatus(fiber.StatusOK)
	}

	if err := h.sender.SendWhatsAppMessage(from, reply.Text); err != nil {
		h.metrics.ObserveSendFailure(models.ChannelTwilio)
		log.Error().Err(err).Str("to", from).Msg("❌ Failed to send WhatsApp response")
	} else {
		log.Info().Str("to", from).Msg("✅ Response sent")
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// TestWebhookPayload is the body of POST /test/whatsapp
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook runs the responder without sending anything
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Info().Str("from", payload.From).Msgf("🧪 Test webhook received: %s", payload.Message)

	reply := h.conversations.ProcessMessage(models.ChannelTest, payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":  true,
		"command":  reply.Command,
		"response": reply.Text,
	})
}

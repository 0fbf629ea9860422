package handlers

import (
	"encoding/base64"
	"strconv"
	"time"

	pongo2 "github.com/flosch/pongo2/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"

	"github.com/Ananth-NQI/autoresponder/internal/services"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
	"github.com/Ananth-NQI/autoresponder/internal/views"
)

const (
	qrImageSize     = 256
	qrRefreshSecond = 20

	defaultMessageLimit = 20
	maxMessageLimit     = 100
)

// BotHandler serves the WhatsApp bot's HTTP surface
type BotHandler struct {
	pairing  *services.PairingState
	store    storage.Store
	encodeQR func(content string) ([]byte, error)
}

// NewBotHandler creates a new bot handler
func NewBotHandler(pairing *services.PairingState, store storage.Store) *BotHandler {
	return &BotHandler{
		pairing: pairing,
		store:   store,
		encodeQR: func(content string) ([]byte, error) {
			return qrcode.Encode(content, qrcode.Medium, qrImageSize)
		},
	}
}

// Status handles GET / with an HTML page describing the connection
func (h *BotHandler) Status(c *fiber.Ctx) error {
	snap := h.pairing.Snapshot()
	ctx := pongo2.Context{
		"connected":    snap.Connected,
		"has_code":     snap.HasCode,
		"auth_failure": snap.AuthFailure,
	}
	if snap.Connected && snap.ConnectedAt != nil {
		ctx["connected_at"] = snap.ConnectedAt.Format(time.RFC1123)
	}

	page, err := views.StatusPage(ctx)
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, page)
}

// GetQR handles GET /get-qr. Add ?format=png for the raw image.
func (h *BotHandler) GetQR(c *fiber.Ctx) error {
	snap := h.pairing.Snapshot()

	if snap.Connected {
		page, err := views.MessagePage("✅ Already connected", "The bot is paired with WhatsApp. No QR code is needed.", 0)
		if err != nil {
			return err
		}
		return sendHTML(c, fiber.StatusOK, page)
	}

	if snap.Code == "" {
		page, err := views.MessagePage("⏳ QR code not ready", "The QR code has not been generated yet. This page will refresh automatically.", 5)
		if err != nil {
			return err
		}
		return sendHTML(c, fiber.StatusAccepted, page)
	}

	png, err := h.encodeQR(snap.Code)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to generate QR image")
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to generate QR code")
	}

	if c.Query("format") == "png" {
		c.Set(fiber.HeaderContentType, "image/png")
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Status(fiber.StatusOK).Send(png)
	}

	page, err := views.QRPage(base64.StdEncoding.EncodeToString(png), qrImageSize, qrRefreshSecond)
	if err != nil {
		return err
	}
	return sendHTML(c, fiber.StatusOK, page)
}

// PairingStatus handles GET /api/status
func (h *BotHandler) PairingStatus(c *fiber.Ctx) error {
	return c.JSON(h.pairing.Snapshot())
}

// RecentMessages handles GET /api/messages?limit=N
func (h *BotHandler) RecentMessages(c *fiber.Ctx) error {
	limit := defaultMessageLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a positive integer",
			})
		}
		limit = n
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	entries, err := h.store.GetRecentChatLogs(limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":    len(entries),
		"messages": entries,
	})
}

func sendHTML(c *fiber.Ctx, status int, page string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(page)
}

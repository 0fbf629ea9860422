package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/internal/handlers"
	"github.com/Ananth-NQI/autoresponder/internal/metrics"
	"github.com/Ananth-NQI/autoresponder/internal/middleware"
	"github.com/Ananth-NQI/autoresponder/internal/services"
	"github.com/Ananth-NQI/autoresponder/internal/storage"
)

// NewApp creates a fiber app with the shared middleware stack
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	return app
}

// SetupHelloRoutes configures the serverless demo API
func SetupHelloRoutes(app *fiber.App, store storage.Store) {
	hello := handlers.NewHelloHandler(store)

	api := app.Group("/api")
	api.Get("/hello", hello.Hello)
	api.Post("/data", hello.CreateData)
	api.Get("/data/:id", hello.GetData)

	// This should be the last route.
	app.Use(handlers.NotFound)
}

// SetupHealthRoutes configures the health-check server
func SetupHealthRoutes(app *fiber.App) {
	app.Get("/", handlers.Root)
	app.Get("/health", handlers.Health)
}

// BotDeps are the collaborators of the WhatsApp bot routes
type BotDeps struct {
	Store         storage.Store
	Pairing       *services.PairingState
	Conversations *services.ConversationService
	Metrics       *metrics.Metrics

	// Twilio transport. Sender nil disables outbound replies on the webhook.
	TwilioSender     services.MessageSender
	TwilioAuthToken  string
	ValidateWebhooks bool
}

// SetupBotRoutes configures the WhatsApp bot server
func SetupBotRoutes(app *fiber.App, deps BotDeps) {
	bot := handlers.NewBotHandler(deps.Pairing, deps.Store)
	whatsapp := handlers.NewWhatsAppHandler(deps.Conversations, deps.TwilioSender, deps.Metrics)

	app.Get("/", bot.Status)
	app.Get("/health", handlers.Health)
	app.Get("/get-qr", bot.GetQR)

	api := app.Group("/api")
	api.Get("/status", bot.PairingStatus)
	api.Get("/messages", bot.RecentMessages)

	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if deps.ValidateWebhooks {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(deps.TwilioAuthToken), whatsapp.HandleWebhook)
	} else {
		log.Warn().Msg("⚠️  WhatsApp webhook validation DISABLED")
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	}

	// ========== TEST ROUTES ==========
	app.Post("/test/whatsapp", whatsapp.HandleTestWebhook)

	app.Use(handlers.NotFound)
}

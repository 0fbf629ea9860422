package handler

import (
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog/log"

	"github.com/Ananth-NQI/autoresponder/database"
	"github.com/Ananth-NQI/autoresponder/internal/config"
	"github.com/Ananth-NQI/autoresponder/internal/logging"
	"github.com/Ananth-NQI/autoresponder/internal/routes"
)

var (
	initServerless sync.Once
	cachedHandler  http.HandlerFunc
)

// Handler is the entry point for Vercel serverless functions
func Handler(w http.ResponseWriter, r *http.Request) {
	initServerless.Do(func() {
		cachedHandler = adaptor.FiberApp(newApp())
	})
	cachedHandler(w, r)
}

func newApp() *fiber.App {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, "json")
	log.Info().Msg("--- Serverless Function Initializing ---")

	app := routes.NewApp("Hello API")

	store, err := database.NewStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("❌ Storage unavailable")
		app.Use(func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusServiceUnavailable, "storage unavailable")
		})
		return app
	}

	routes.SetupHelloRoutes(app, store)
	return app
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Ananth-NQI/autoresponder/database"
	"github.com/Ananth-NQI/autoresponder/internal/config"
	"github.com/Ananth-NQI/autoresponder/internal/jobs"
	"github.com/Ananth-NQI/autoresponder/internal/logging"
	"github.com/Ananth-NQI/autoresponder/internal/metrics"
	"github.com/Ananth-NQI/autoresponder/internal/routes"
	"github.com/Ananth-NQI/autoresponder/internal/services"
)

const version = "1.0.0"

var cfg *config.Config

func main() {
	root := &cobra.Command{
		Use:     "autoresponder",
		Short:   "Hello API, health-check server and WhatsApp auto-responder",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
			cfg = config.Load()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().String("port", "", "port to listen on (overrides PORT)")

	root.AddCommand(
		&cobra.Command{
			Use:   "hello",
			Short: "Serve the hello/data API",
			RunE:  func(cmd *cobra.Command, args []string) error { return runHello() },
		},
		&cobra.Command{
			Use:   "health",
			Short: "Serve the health-check web server",
			RunE:  func(cmd *cobra.Command, args []string) error { return runHealth() },
		},
		&cobra.Command{
			Use:   "bot",
			Short: "Run the WhatsApp auto-responder",
			RunE:  func(cmd *cobra.Command, args []string) error { return runBot(cmd.Context()) },
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runHello() error {
	store, err := database.NewStore(cfg)
	if err != nil {
		return err
	}

	app := routes.NewApp("Hello API v" + version)
	routes.SetupHelloRoutes(app, store)

	log.Info().Str("storage", cfg.StorageType()).Msg("📊 Storage configured")
	return serve(app, "Hello API", nil)
}

func runHealth() error {
	app := routes.NewApp("Health Server v" + version)
	routes.SetupHealthRoutes(app)
	return serve(app, "Health server", nil)
}

func runBot(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := database.NewStore(cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	responder, err := services.NewResponder(cfg.BotTimezone, services.WithMetrics(m))
	if err != nil {
		return err
	}
	conversations := services.NewConversationService(responder, store)
	pairing := services.NewPairingState()

	whatsapp, err := services.NewWhatsAppService(ctx, services.WhatsAppOptions{
		StoreDSN:      cfg.WhatsAppStoreDSN,
		ReplyInGroups: cfg.ReplyInGroups,
		QRTerminal:    cfg.QRTerminal,
	}, conversations, pairing, m)
	if err != nil {
		return err
	}

	deps := routes.BotDeps{
		Store:            store,
		Pairing:          pairing,
		Conversations:    conversations,
		Metrics:          m,
		TwilioAuthToken:  cfg.TwilioAuthToken,
		ValidateWebhooks: !cfg.IsDevelopment() && !cfg.DisableWebhookValidation,
	}
	if twilioService, err := services.NewTwilioService(cfg); err != nil {
		log.Warn().Err(err).Msg("⚠️  Twilio not configured - webhook replies will not be sent")
	} else {
		deps.TwilioSender = twilioService
		log.Info().Msg("✅ Twilio service initialized")
	}

	retention := jobs.NewRetentionJob(store, cfg.ChatLogRetention, time.Hour)
	retention.Start()

	app := routes.NewApp("WhatsApp Auto-Responder v" + version)
	routes.SetupBotRoutes(app, deps)

	if err := whatsapp.Start(ctx); err != nil {
		retention.Stop()
		whatsapp.Stop()
		return err
	}

	log.Info().Str("timezone", responder.Location().String()).Msg("🤖 Auto-responder started")
	log.Info().Msgf("📱 Pair the bot at http://localhost:%s/get-qr", cfg.Port)

	return serve(app, "WhatsApp bot", func() {
		log.Info().Msg("⏹️  Stopping retention job...")
		retention.Stop()
		log.Info().Msg("⏹️  Disconnecting WhatsApp...")
		whatsapp.Stop()
	})
}

// serve listens on cfg.Port until SIGINT/SIGTERM, then runs cleanup and shuts down
func serve(app *fiber.App, name string, cleanup func()) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("🛑 Gracefully shutting down...")
		if cleanup != nil {
			cleanup()
		}
		log.Info().Msg("⏹️  Shutting down server...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Msg("========================================")
	log.Info().Msgf("🚀 %s starting on port %s", name, cfg.Port)
	log.Info().Msgf("🌍 Environment: %s", cfg.Environment)
	log.Info().Msg("========================================")

	if err := app.Listen(":" + cfg.Port); err != nil {
		return errors.Wrapf(err, "%s stopped", name)
	}
	return nil
}

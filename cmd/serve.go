package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/favrelay/favrelay/internal/config"
	"github.com/favrelay/favrelay/internal/identity"
	"github.com/favrelay/favrelay/internal/notifier"
	"github.com/favrelay/favrelay/internal/observability"
	"github.com/favrelay/favrelay/internal/server"
	"github.com/favrelay/favrelay/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Favro webhook relay server",
	Long: `Start the HTTP server that receives Favro webhooks on /webhook,
verifies their signatures, and forwards mention notifications to Slack.
Runs until interrupted; SIGINT/SIGTERM trigger a graceful shutdown.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := log.New(os.Stdout, "favrelay ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first so all later instrumentation lands on real providers.
	otelCfg, err := observability.LoadConfig(cfg)
	if err != nil {
		return err
	}
	tp, err := observability.InitTracer(ctx, otelCfg)
	if err != nil {
		return err
	}
	mp, err := observability.InitMeter(ctx, otelCfg)
	if err != nil {
		return err
	}
	shutdownTelemetry := observability.NewShutdownFunc(tp, mp)
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Printf("Telemetry shutdown error: %v", err)
		}
	}()

	var slackClient notifier.SlackClient
	if cfg.SlackBotToken != "" {
		slackClient = slack.New(cfg.SlackBotToken)
		logger.Println("Slack client initialized successfully")
	}

	resolver := identity.NewResolver(cfg.UserMapping)
	logger.Printf("Loaded %d user mapping(s)", resolver.Size())

	n := notifier.New(slackClient, resolver, logger)
	n.SetRateLimiter(notifier.NewRateLimiter(cfg.NotifyUserPerMinute, cfg.NotifyGlobalPerMinute))

	verifier := webhook.NewVerifier(cfg.FavroWebhookSecret, cfg.WebhookURL, logger)
	router := webhook.NewRouter(n, logger)

	srv := server.NewServer(&server.ServerConfig{
		Host:            cfg.ServerHost,
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		RequestTimeout:  cfg.RequestTimeout,
	}, verifier, router, logger)

	return srv.Run(ctx)
}

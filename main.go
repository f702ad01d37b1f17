package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	telegoBot "participium/bot"
	"participium/internal/api"
	"participium/internal/assignment"
	"participium/internal/auth"
	"participium/internal/config"
	"participium/internal/geocoding"
	"participium/internal/handlers"
	"participium/internal/linking"
	"participium/internal/locales"
	"participium/internal/reports"
	"participium/internal/sessions"
	"participium/internal/wizard"
	telegoapi "participium/pkg/telegoapi"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
)

const tokenIssuer = "participium"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	locales.Init(cfg.DefaultLanguage)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer store.Close()

	photoStore, err := openPhotoStore(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	selector, err := assignment.New(cfg.AssignmentPolicy, store.Users, store.Reports)
	if err != nil {
		log.Fatalf("Assignment policy: %v", err)
	}

	reportService := reports.NewService(store.Reports, store.Users, selector, photoStore)
	linkService := linking.NewService(store.LinkCodes, store.Users)
	tokens := auth.NewTokenManager(cfg.JWTSecret, tokenIssuer, cfg.JWTTTL)

	// --- HTTP API ---
	uploadDir := ""
	if cfg.PhotoStorage == config.PhotoStorageDisk {
		uploadDir = cfg.UploadDir
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(reportService, linkService, tokens, uploadDir).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// --- Bot Initialization ---
	botDone := make(chan struct{})
	if cfg.BotEnabled {
		go func() {
			defer close(botDone)
			runBot(ctx, cfg, store, reportService, linkService)
		}()
	} else {
		log.Println("Telegram bot disabled.")
		close(botDone)
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	<-botDone

	log.Println("Shutdown complete.")
}

// runBot starts long polling and blocks until ctx is done.
func runBot(ctx context.Context, cfg *config.Config, store *storage, reportService *reports.Service, linkService *linking.Service) {
	var bot *telego.Bot
	var err error
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, false))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("Failed to create telego bot: %v", err)
		return
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("Failed to start long polling: %v", err)
		return
	}

	sessionStore := sessions.NewManager(cfg.SessionTTL)
	go sessionStore.Run(ctx, sessions.DefaultSweepInterval)
	defer sessionStore.Shutdown()

	geocoder := geocoding.NewClient(cfg.GeocoderURL, cfg.GeocoderUserAgent, geocoding.WithRate(cfg.GeocoderRate))

	reportWizard := wizard.NewManager(
		bot,
		sessionStore,
		reportService,
		store.Users,
		geocoder,
		telegoapi.NewBotFileFetcher(bot),
	)

	messageHandler := handlers.NewMessageHandler(
		store.Activity,
		store.Activity,
		reportWizard,
		linkService,
	)
	if err := messageHandler.SetupCommands(ctx, bot); err != nil {
		log.Printf("Failed to set bot commands: %v", err)
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:         bot,
		UpdatesChan: updates,
		Debug:       cfg.Debug,
		Handler:     messageHandler,
		Wizard:      reportWizard,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("Failed to create bot: %v", err)
		return
	}

	appBot.Start(ctx)
	log.Println("Bot shutdown complete.")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookbot/internal/book"
	"bookbot/internal/config"
	"bookbot/internal/database"
	"bookbot/internal/handler"
	"bookbot/internal/lexicon"
	"bookbot/internal/logger"
	"bookbot/internal/middleware"
	"bookbot/internal/repository/postgres"
	"bookbot/internal/service"
	"bookbot/internal/session"
	"bookbot/internal/transient"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting book bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load the book and texts
	b, err := book.Load(cfg.BookPath, cfg.PageSize)
	if err != nil {
		log.Fatal("Failed to load book", zap.String("path", cfg.BookPath), zap.Error(err))
	}
	log.Info("Book loaded", zap.Int("pages", b.Len()))

	texts, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Fatal("Failed to load lexicon", zap.Error(err))
	}

	// Connect to database with retries
	db, err := database.Connect(ctx, cfg.PGLink, database.DefaultRetry, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connection established")

	// Run migrations
	if err := database.Migrate(db, cfg.MigrationsPath, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserRepo(db)
	reader := service.NewReaderService(userRepo, b, log)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:     cfg.BotToken,
		Poller:    &tele.LongPoller{Timeout: cfg.PollTimeout},
		ParseMode: tele.ModeHTML,
		OnError:   handler.ReportError(texts, log),
	})
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}
	bot.Use(middleware.Recover(log), middleware.Logging(log))

	log.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	scheduler := transient.NewScheduler(ctx, bot, cfg.TransientDelay, log)
	sessions := session.NewManager(log)

	// Initialize handler
	h := handler.NewHandler(bot, reader, sessions, scheduler, texts, cfg.IsAdmin, log)
	h.RegisterHandlers(ctx)
	if err := h.SetCommands(); err != nil {
		log.Warn("Failed to set command menu", zap.Error(err))
	}

	log.Info("Handlers registered")

	// Start bot in background
	go func() {
		log.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	scheduler.Wait()

	log.Info("Bot stopped gracefully")
}

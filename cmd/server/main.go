package main

import (
	"chat-relay/auth"
	"chat-relay/infrastructure/httpapi"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/search"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern keeps 'defer' statements (database cleanup, index flush) running
// before the process exits, and decouples initialization from the entry point.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (Bluge)
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Repositories
	messageRepository := repositories.NewMessageRepository(db, logger)
	defer func() {
		// Releases badger sequences so unused ids return to the pool.
		_ = messageRepository.Close()
	}()
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)
	defer func() {
		_ = roomRepository.Close()
	}()

	// 5. Auth & moderation
	authority := auth.NewAuthority(config.JWTSecret, config.AuthTokenDuration)

	censored, err := moderation.LoadEmbedded()
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to load censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(censored.Words, charReplacement)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to build moderator: %w", err)
	}
	logger.Info("Moderation ready", "words", len(censored.Words), "languages", censored.Languages)

	// 6. Engine
	monitor := observability.NewMonitor()
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(
		logger,
		authority,
		roomRepository,
		messageRepository,
		registry,
		monitor,
		moderator,
		config.HistoryLimit,
		config.ConnectionBufferSize,
		config.EventBufferSize,
		config.VerifyTimeout,
	)

	indexer := search.NewIndexer(blugeWriter, logger)

	supervisor := workers.NewSupervisor(logger)
	orchestrator := runtime.NewOrchestrator(logger, supervisor, broadcaster, monitor,
		config.SinkTimeout, config.MetricInterval)
	orchestrator.Add(sink.NewSearchSink(indexer, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go orchestrator.Start(ctx)

	// 7. Services & HTTP surface
	authService := services.NewAuthService(userRepository, authority)
	roomService := services.NewRoomService(roomRepository)
	chatService := services.NewChatService(broadcaster, indexer)
	analyticsService := services.NewAnalyticsService(messageRepository, roomRepository)

	server := httpapi.NewServer(
		logger,
		authService,
		roomService,
		chatService,
		analyticsService,
		authority,
		monitor,
		config.MaxContentLength,
	)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		serverErr <- server.Start(addr)
	}()

	// 8. Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Signal received, shutting down", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			orchestrator.Stop()
			return exitRuntime, fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	orchestrator.Stop()

	logger.Info("Server stopped cleanly")
	return exitOK, nil
}

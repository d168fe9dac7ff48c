package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/chess-engine/internal/config"
	"github.com/benbeisheim/chess-engine/internal/controller"
	"github.com/benbeisheim/chess-engine/internal/middleware"
	"github.com/benbeisheim/chess-engine/internal/service"
	"github.com/benbeisheim/chess-engine/internal/storage"
	"github.com/go-logr/stdr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	stdr.SetVerbosity(cfg.Verbosity)
	logger := stdr.NewWithOptions(log.New(os.Stderr, "", log.LstdFlags), stdr.Options{LogCaller: stdr.Error}).WithName("chess")

	// Initialize the archive
	var (
		archiveWriter service.GameArchive
		archiveReader service.ArchiveReader
	)
	if cfg.Archive {
		archive, err := storage.Open(cfg.DataDir, logger)
		if err != nil {
			logger.Error(err, "failed to open game archive", "dir", cfg.DataDir)
			os.Exit(1)
		}
		defer archive.Close()
		archiveWriter, archiveReader = archive, archive
		logger.Info("game archive opened", "dir", cfg.DataDir)
	}

	// Initialize services
	sessionManager := service.NewSessionManager(archiveWriter, logger)
	gameService := service.NewGameService(sessionManager, archiveReader)

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Client-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(logger))

	controller.SetupRoutes(app, logger, gameController, wsController, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         splitOrigins(cfg.AllowOrigins),
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error(err, "shutdown failed")
		}
	}()

	logger.Info("listening", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error(err, "server stopped")
	}
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

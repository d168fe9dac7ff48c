package controller

import (
	"github.com/benbeisheim/chess-engine/internal/middleware"
	"github.com/go-logr/logr"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes mounts the REST API and the websocket endpoint on app.
func SetupRoutes(app *fiber.App, log logr.Logger, gameController *GameController, wsController *WebSocketController, wsConfig websocket.Config) {
	// Set up WebSocket routes
	app.Use("/ws", middleware.EnsureClientID(log))
	app.Get("/ws/session/:id", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsureClientID(log))

	sessionRoutes := api.Group("/session")
	sessionRoutes.Post("/", gameController.CreateSession)
	sessionRoutes.Get("/:id", gameController.GetGameState)
	sessionRoutes.Post("/:id/reset", gameController.ResetSession)
	sessionRoutes.Delete("/:id", gameController.DeleteSession)

	archiveRoutes := api.Group("/archive")
	archiveRoutes.Get("/", gameController.ListArchivedGames)
	archiveRoutes.Get("/:id", gameController.GetArchivedGame)
}

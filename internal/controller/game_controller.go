package controller

import (
	"errors"

	"github.com/benbeisheim/chess-engine/internal/model"
	"github.com/benbeisheim/chess-engine/internal/service"
	"github.com/benbeisheim/chess-engine/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateSession(c *fiber.Ctx) error {
	sessionID, state := gc.gameService.CreateSession()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Session created",
		"session_id": sessionID,
		"state":      state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) ResetSession(c *fiber.Ctx) error {
	gameState, err := gc.gameService.ResetSession(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) DeleteSession(c *fiber.Ctx) error {
	if err := gc.gameService.RemoveSession(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) ListArchivedGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListArchivedGames()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(games)
}

func (gc *GameController) GetArchivedGame(c *fiber.Ctx) error {
	game, err := gc.gameService.GetArchivedGame(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(game)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, storage.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidSquare),
		errors.Is(err, model.ErrInvalidPromotion),
		errors.Is(err, model.ErrNoPendingPromotion):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

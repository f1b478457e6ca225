package handler

import (
	"net/http"

	"github.com/mcoot/tikitakatoe/internal/api/apierr"
	"github.com/mcoot/tikitakatoe/internal/api/middleware"
	"github.com/mcoot/tikitakatoe/internal/api/request"
	"github.com/mcoot/tikitakatoe/internal/api/response"
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/game"
)

// GameHandler handles game-session endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// GenerateGrid handles GET /generate-grid
func (h *GameHandler) GenerateGrid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	session, err := h.gameController.NewGame(r.Context(), game.NewGameInput{
		GameID:     model.GameID(q.Get("game_id")),
		Difficulty: model.Difficulty(q.Get("difficulty")),
		UserID:     middleware.GetUserID(r.Context()),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GridFromSession(session))
}

// SubmitGuess handles POST /submit-guess
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitGuessRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if req.GameID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("game_id is required"))
		return
	}
	if req.Club == "" || req.Country == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("club and country are required"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if req.UserID != "" && model.UserID(req.UserID) != userID {
		apierr.WriteError(w, model.ErrForbidden)
		return
	}

	result, err := h.gameController.SubmitGuess(r.Context(), game.GuessInput{
		GameID:  model.GameID(req.GameID),
		Club:    req.Club,
		Country: req.Country,
		Player:  req.Player,
		UserID:  userID,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GuessFromResult(result))
}

// Hint handles GET /hint/{game_id}. Any hint_count query parameter is ignored.
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDVar(r)
	q := r.URL.Query()

	club, country := q.Get("club"), q.Get("country")
	if club == "" || country == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("club and country are required"))
		return
	}

	result, err := h.gameController.Hint(r.Context(), gameID, club, country)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintFromResult(result))
}

// GiveUp handles GET /give-up/{game_id}
func (h *GameHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDVar(r)

	result, err := h.gameController.GiveUp(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GiveUpFromResult(result))
}

// Reset handles GET /reset-game/{game_id}
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDVar(r)

	session, err := h.gameController.Reset(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GridFromSession(session))
}

// State handles GET /game-state/{game_id}
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	gameID := gameIDVar(r)

	session, err := h.gameController.GetSession(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(session))
}

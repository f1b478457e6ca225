package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tikitakatoe/internal/api/apierr"
	"github.com/mcoot/tikitakatoe/internal/api/handler"
	"github.com/mcoot/tikitakatoe/internal/api/middleware"
	"github.com/mcoot/tikitakatoe/internal/api/response"
	"github.com/mcoot/tikitakatoe/internal/mcpserver"
	httpmw "github.com/mcoot/tikitakatoe/internal/middleware"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/corpus"
	"github.com/mcoot/tikitakatoe/internal/services/game"
	"github.com/mcoot/tikitakatoe/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	StatsService   *stats.Service
	CorpusService  *corpus.Service
	GameController *game.Controller
	// CORSOrigin is a comma-separated list of allowed browser origins (optional)
	CORSOrigin string
	// DisableMCP leaves the /mcp endpoint unmounted
	DisableMCP bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.StatsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	r.Use(httpmw.Recovery(cfg.Logger, func(w http.ResponseWriter) {
		apierr.WriteError(w, apierr.NewInternalError())
	}))
	r.Use(httpmw.Logging(cfg.Logger))

	// Game routes; a bearer token, when present, attributes the game to a user
	games := r.NewRoute().Subrouter()
	games.Use(optionalAuthMiddleware)
	games.HandleFunc("/generate-grid", gameHandler.GenerateGrid).Methods(http.MethodGet)
	games.HandleFunc("/submit-guess", gameHandler.SubmitGuess).Methods(http.MethodPost)
	games.HandleFunc("/hint/{game_id}", gameHandler.Hint).Methods(http.MethodGet)
	games.HandleFunc("/give-up/{game_id}", gameHandler.GiveUp).Methods(http.MethodGet)
	games.HandleFunc("/reset-game/{game_id}", gameHandler.Reset).Methods(http.MethodGet)
	games.HandleFunc("/game-state/{game_id}", gameHandler.State).Methods(http.MethodGet)

	// Account routes (no auth required for registering/logging in)
	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	account := r.PathPrefix("/auth").Subrouter()
	account.Use(authMiddleware)
	account.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	account.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	account.HandleFunc("/stats", authHandler.Stats).Methods(http.MethodGet)

	// Agent tools over the same controller
	if !cfg.DisableMCP {
		r.PathPrefix("/mcp").Handler(mcpserver.New(cfg.GameController, cfg.Logger).Handler())
	}

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler(cfg.CorpusService)).Methods(http.MethodGet)

	return httpmw.CORS(cfg.CORSOrigin)(r)
}

func healthHandler(corpusService *corpus.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !corpusService.IsLoaded() {
			response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "loading"})
			return
		}
		response.JSON(w, http.StatusOK, response.Health{
			Status:  "ok",
			Players: corpusService.PlayerCount(),
		})
	}
}

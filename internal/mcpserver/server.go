package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcoot/tikitakatoe/internal/api/response"
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/game"
)

const (
	serverName    = "tikitakatoe"
	serverVersion = "1.0.0"
)

// NewGameArgs is the input schema for new_game
type NewGameArgs struct {
	GameID     string `json:"game_id,omitempty" jsonschema:"Game id to create or replace (generated when empty)"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"Tier: easy|medium|hard (default easy)"`
}

// GuessArgs is the input schema for submit_guess
type GuessArgs struct {
	GameID  string `json:"game_id" jsonschema:"Game id (required)"`
	Club    string `json:"club" jsonschema:"Club row of the cell (required)"`
	Country string `json:"country" jsonschema:"Country column of the cell (required)"`
	Player  string `json:"player" jsonschema:"Footballer name, full name or surname (required)"`
}

// CellArgs is the input schema for get_hint
type CellArgs struct {
	GameID  string `json:"game_id" jsonschema:"Game id (required)"`
	Club    string `json:"club" jsonschema:"Club row of the cell (required)"`
	Country string `json:"country" jsonschema:"Country column of the cell (required)"`
}

// GameArgs is the input schema for tools that take only a game id
type GameArgs struct {
	GameID string `json:"game_id" jsonschema:"Game id (required)"`
}

// Server exposes the game controller as MCP tools
type Server struct {
	server         *mcp.Server
	gameController *game.Controller
	logger         *slog.Logger
}

// New creates an MCP server with every game tool registered
func New(gameController *game.Controller, logger *slog.Logger) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: serverVersion,
		}, nil),
		gameController: gameController,
		logger:         logger,
	}
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Handler returns a streamable HTTP handler serving the tools
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "new_game",
		Description: "Generate a new 3x3 grid of clubs and countries",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args NewGameArgs) (*mcp.CallToolResult, any, error) {
		session, err := s.gameController.NewGame(ctx, game.NewGameInput{
			GameID:     model.GameID(args.GameID),
			Difficulty: model.Difficulty(args.Difficulty),
		})
		if err != nil {
			return s.toolError("new_game", err), nil, nil
		}
		return toolJSON(response.GridFromSession(session))
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_guess",
		Description: "Name a footballer who played for the club and represents the country",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GuessArgs) (*mcp.CallToolResult, any, error) {
		if args.GameID == "" {
			return s.toolError("submit_guess", fmt.Errorf("game_id is required")), nil, nil
		}
		result, err := s.gameController.SubmitGuess(ctx, game.GuessInput{
			GameID:  model.GameID(args.GameID),
			Club:    args.Club,
			Country: args.Country,
			Player:  args.Player,
		})
		if err != nil {
			return s.toolError("submit_guess", err), nil, nil
		}
		return toolJSON(response.GuessFromResult(result))
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_hint",
		Description: "Reveal one more letter of an answer for a cell (costs points)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CellArgs) (*mcp.CallToolResult, any, error) {
		result, err := s.gameController.Hint(ctx, model.GameID(args.GameID), args.Club, args.Country)
		if err != nil {
			return s.toolError("get_hint", err), nil, nil
		}
		return toolJSON(response.HintFromResult(result))
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "give_up",
		Description: "End the game and reveal an answer for every cell",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameArgs) (*mcp.CallToolResult, any, error) {
		result, err := s.gameController.GiveUp(ctx, model.GameID(args.GameID))
		if err != nil {
			return s.toolError("give_up", err), nil, nil
		}
		return toolJSON(response.GiveUpFromResult(result))
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset_game",
		Description: "Replace the grid of a game with a new one at the same difficulty",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameArgs) (*mcp.CallToolResult, any, error) {
		session, err := s.gameController.Reset(ctx, model.GameID(args.GameID))
		if err != nil {
			return s.toolError("reset_game", err), nil, nil
		}
		return toolJSON(response.GridFromSession(session))
	})

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "game_state",
		Description: "Show the grid, filled cells, hints and score of a game",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args GameArgs) (*mcp.CallToolResult, any, error) {
		session, err := s.gameController.GetSession(ctx, model.GameID(args.GameID))
		if err != nil {
			return s.toolError("game_state", err), nil, nil
		}
		return toolJSON(response.GameStateFromModel(session))
	})
}

func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	s.logger.Debug("mcp tool error",
		slog.String("tool", tool),
		slog.String("error", err.Error()),
	)
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var errNoGame = errors.New("no current game: run 'tikitaka new' or pass --game")

func requireGame() (string, error) {
	if cfg.GameID == "" {
		return "", errNoGame
	}
	return cfg.GameID, nil
}

func newNewCmd() *cobra.Command {
	var difficulty string
	var gameID string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game and make it the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if difficulty != "" {
				q.Set("difficulty", difficulty)
			}
			if gameID != "" {
				q.Set("game_id", gameID)
			}

			path := "/generate-grid"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var result Grid
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			if err := cfg.SaveGameID(result.GameID); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Difficulty: easy, medium, hard (default: server default)")
	cmd.Flags().StringVar(&gameID, "id", "", "Game id (default: generated)")

	return cmd
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <club> <country> <player>",
		Short: "Name a player for a cell",
		Long: `Name a footballer who played for <club> and represents <country>.
Quote multi-word names, or pass them as the remaining arguments.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := requireGame()
			if err != nil {
				return err
			}

			req := map[string]string{
				"game_id": gameID,
				"club":    args[0],
				"country": args[1],
				"player":  strings.Join(args[2:], " "),
			}
			var result GuessResult

			if err := client.Post(cmd.Context(), "/submit-guess", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <club> <country>",
		Short: "Reveal one more letter of an answer for a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := requireGame()
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("club", args[0])
			q.Set("country", args[1])
			var result HintResult

			if err := client.Get(cmd.Context(), fmt.Sprintf("/hint/%s?%s", url.PathEscape(gameID), q.Encode()), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGiveUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "giveup",
		Short: "End the current game and show every answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := requireGame()
			if err != nil {
				return err
			}

			var result GiveUpResult
			if err := client.Get(cmd.Context(), "/give-up/"+url.PathEscape(gameID), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the current game's grid with a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := requireGame()
			if err != nil {
				return err
			}

			var result Grid
			if err := client.Get(cmd.Context(), "/reset-game/"+url.PathEscape(gameID), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the current game",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := requireGame()
			if err != nil {
				return err
			}

			var result GameState
			if err := client.Get(cmd.Context(), "/game-state/"+url.PathEscape(gameID), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

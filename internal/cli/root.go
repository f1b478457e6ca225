package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "tikitaka",
		Short: "CLI tool for the Tiki Taka Toe API",
		Long: `tikitaka plays Tiki Taka Toe against a running server.

Each cell of the 3x3 grid is a club (row) and a country (column). Win a cell
by naming a footballer who played for that club and represents that country.
The current game id and login token are kept in the state directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token and game from files if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}
			if err := cfg.LoadGameID(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			client = NewClient(cfg.ServerURL, cfg.Token, logger)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: TIKITAKA_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: TIKITAKA_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Directory for the saved token and game (env: TIKITAKA_HOME)")
	rootCmd.PersistentFlags().StringVarP(&cfg.GameID, "game", "g", "", "Game id (default: the last game created)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newNewCmd())
	rootCmd.AddCommand(newGuessCmd())
	rootCmd.AddCommand(newHintCmd())
	rootCmd.AddCommand(newGiveUpCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

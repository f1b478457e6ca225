package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check that the server is up and its player corpus is loaded.

With --wait, keep polling until the server reports ok or the wait expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pollHealth(cmd.Context(), wait, 250*time.Millisecond)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long (e.g. 30s)")

	return cmd
}

// pollHealth calls /health until it succeeds, the wait runs out or ctx ends.
// A server still loading its corpus answers 503, which counts as not ready.
func pollHealth(ctx context.Context, wait, every time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)
	for {
		var result HealthResult
		err := client.Get(ctx, "/health", &result)
		if err == nil || !time.Now().Add(every).Before(deadline) {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(every):
		}
	}
}

package stats

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/game"
	"github.com/mcoot/tikitakatoe/internal/storage"
)

// RecentGames is the number of results returned in a summary
const RecentGames = 10

// ServiceInterface defines the stats operations
type ServiceInterface interface {
	RecordResult(ctx context.Context, result *model.GameResult) error
	Summary(ctx context.Context, userID model.UserID) (*model.StatsSummary, error)
}

// Ensure Service implements the interfaces
var (
	_ ServiceInterface    = (*Service)(nil)
	_ game.ResultRecorder = (*Service)(nil)
)

// Service records finished games and aggregates them per user
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new StatsService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// RecordResult stores the result of a finished game
func (s *Service) RecordResult(ctx context.Context, result *model.GameResult) error {
	if err := s.storage.AppendGameResult(ctx, result); err != nil {
		return err
	}

	s.logger.Info("game result recorded",
		slog.String("user_id", string(result.UserID)),
		slog.String("game_id", string(result.GameID)),
		slog.Int("score", result.Score),
		slog.Bool("completed", result.Completed),
	)
	return nil
}

// Summary aggregates every recorded result for a user. Recent games are
// returned newest first.
func (s *Service) Summary(ctx context.Context, userID model.UserID) (*model.StatsSummary, error) {
	results, err := s.storage.GetGameResults(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &model.StatsSummary{
		UserID:       userID,
		ByDifficulty: make(map[model.Difficulty]model.DifficultyStats),
		Recent:       []model.GameResult{},
	}

	for _, r := range results {
		summary.TotalGames++
		summary.TotalScore += r.Score
		summary.TotalHints += r.HintsUsed
		summary.TotalHintPenalty += r.HintPenalty

		d := summary.ByDifficulty[r.Difficulty]
		d.Games++
		d.TotalScore += r.Score
		if r.Completed {
			summary.CompletedGames++
			d.Completed++
		}
		summary.ByDifficulty[r.Difficulty] = d
	}

	if summary.TotalGames > 0 {
		summary.CompletionRate = float64(summary.CompletedGames) / float64(summary.TotalGames)
		summary.AverageScore = float64(summary.TotalScore) / float64(summary.TotalGames)
	}
	for k, d := range summary.ByDifficulty {
		d.AverageScore = float64(d.TotalScore) / float64(d.Games)
		summary.ByDifficulty[k] = d
	}

	sorted := make([]*model.GameResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinishedAt.After(sorted[j].FinishedAt)
	})
	for i := 0; i < len(sorted) && i < RecentGames; i++ {
		summary.Recent = append(summary.Recent, *sorted[i])
	}

	return summary, nil
}

package model

import "time"

// GameResult is the record kept for a finished game attributed to a user
type GameResult struct {
	GameID      GameID        `json:"game_id"`
	UserID      UserID        `json:"user_id"`
	Difficulty  Difficulty    `json:"difficulty"`
	Score       int           `json:"score"`
	CellsFilled int           `json:"cells_filled"`
	HintsUsed   int           `json:"hints_used"`
	HintPenalty int           `json:"hint_penalty"`
	Completed   bool          `json:"completed"`
	TimeTaken   time.Duration `json:"time_taken"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// DifficultyStats aggregates results for one tier
type DifficultyStats struct {
	Games        int     `json:"games"`
	Completed    int     `json:"completed"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// StatsSummary aggregates every result recorded for a user
type StatsSummary struct {
	UserID           UserID                         `json:"user_id"`
	TotalGames       int                            `json:"total_games"`
	CompletedGames   int                            `json:"completed_games"`
	CompletionRate   float64                        `json:"completion_rate"`
	TotalScore       int                            `json:"total_score"`
	AverageScore     float64                        `json:"average_score"`
	TotalHints       int                            `json:"total_hints"`
	TotalHintPenalty int                            `json:"total_hint_penalty"`
	ByDifficulty     map[Difficulty]DifficultyStats `json:"by_difficulty"`
	Recent           []GameResult                   `json:"recent_games"`
}

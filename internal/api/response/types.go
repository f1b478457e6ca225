package response

import (
	"time"

	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/game"
)

// User represents an account in API responses
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:      User{ID: string(s.UserID), Username: s.Username},
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

// Me is the response for the current account
type Me struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// MeFromModel converts a model.User
func MeFromModel(u *model.User) Me {
	return Me{
		ID:        string(u.ID),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// Grid is the response for generate-grid and reset-game
type Grid struct {
	GameID     string   `json:"game_id"`
	Difficulty string   `json:"difficulty"`
	Clubs      []string `json:"clubs"`
	Countries  []string `json:"countries"`
}

// GridFromSession converts a session to its grid
func GridFromSession(s *model.Session) Grid {
	return Grid{
		GameID:     string(s.ID),
		Difficulty: string(s.Difficulty),
		Clubs:      s.Clubs,
		Countries:  s.Countries,
	}
}

// Guess results
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// Guess is the response for submit-guess
type Guess struct {
	Result       string `json:"result"`
	Player       string `json:"player,omitempty"`
	ID           string `json:"id,omitempty"`
	PointsEarned int    `json:"points_earned,omitempty"`
	Completed    *bool  `json:"completed,omitempty"`
	Score        int    `json:"score"`
}

// GuessFromResult converts a game.GuessResult
func GuessFromResult(r *game.GuessResult) Guess {
	if !r.Correct {
		return Guess{Result: ResultIncorrect, Score: r.Score}
	}
	completed := r.Completed
	return Guess{
		Result:       ResultCorrect,
		Player:       r.PlayerName,
		ID:           string(r.PlayerID),
		PointsEarned: r.PointsEarned,
		Completed:    &completed,
		Score:        r.Score,
	}
}

// Hint is the response for hint
type Hint struct {
	Hint                 string `json:"hint"`
	Club                 string `json:"club"`
	Country              string `json:"country"`
	HintCount            int    `json:"hint_count"`
	TotalLettersRevealed int    `json:"total_letters_revealed"`
	NameLength           int    `json:"name_length"`
	Score                int    `json:"score"`
	HintPenalty          int    `json:"hint_penalty"`
	TotalHintPenalty     int    `json:"total_hint_penalty"`
	HintsRemaining       int    `json:"hints_remaining"`
}

// HintFromResult converts a game.HintResult
func HintFromResult(r *game.HintResult) Hint {
	return Hint{
		Hint:                 r.Hint,
		Club:                 r.Cell.Club,
		Country:              r.Cell.Country,
		HintCount:            r.HintCount,
		TotalLettersRevealed: r.LettersRevealed,
		NameLength:           r.NameLength,
		Score:                r.Score,
		HintPenalty:          r.HintPenalty,
		TotalHintPenalty:     r.TotalHintPenalty,
		HintsRemaining:       r.HintsRemaining,
	}
}

// GiveUp is the response for give-up
type GiveUp struct {
	Answers []model.Answer `json:"answers"`
	Score   int            `json:"score"`
	Status  string         `json:"status"`
}

// GiveUpFromResult converts a game.GiveUpResult
func GiveUpFromResult(r *game.GiveUpResult) GiveUp {
	return GiveUp{
		Answers: r.Answers,
		Score:   r.Score,
		Status:  string(r.Status),
	}
}

// FilledCell is a solved cell in a game state
type FilledCell struct {
	Club    string `json:"club"`
	Country string `json:"country"`
	Player  string `json:"player"`
	ID      string `json:"id"`
	Points  int    `json:"points"`
}

// CellHints is the hint count for one cell
type CellHints struct {
	Club      string `json:"club"`
	Country   string `json:"country"`
	HintCount int    `json:"hint_count"`
}

// GameState is the response for game-state
type GameState struct {
	GameID      string         `json:"game_id"`
	Difficulty  string         `json:"difficulty"`
	Clubs       []string       `json:"clubs"`
	Countries   []string       `json:"countries"`
	Filled      []FilledCell   `json:"filled"`
	Hints       []CellHints    `json:"hints"`
	Score       int            `json:"score"`
	HintPenalty int            `json:"hint_penalty"`
	Status      string         `json:"status"`
	Answers     []model.Answer `json:"answers,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// GameStateFromModel converts a session. Cells are listed in row-major order.
func GameStateFromModel(s *model.Session) GameState {
	state := GameState{
		GameID:      string(s.ID),
		Difficulty:  string(s.Difficulty),
		Clubs:       s.Clubs,
		Countries:   s.Countries,
		Filled:      []FilledCell{},
		Hints:       []CellHints{},
		Score:       s.Score,
		HintPenalty: s.HintPenalty,
		Status:      string(s.Status),
		Answers:     s.Revealed,
		CreatedAt:   s.CreatedAt,
	}
	for _, cell := range s.Cells() {
		if f, ok := s.Filled[cell.Key()]; ok {
			state.Filled = append(state.Filled, FilledCell{
				Club:    cell.Club,
				Country: cell.Country,
				Player:  f.Name,
				ID:      string(f.PlayerID),
				Points:  f.Points,
			})
		}
		if h, ok := s.Hints[cell.Key()]; ok && h.Count > 0 {
			state.Hints = append(state.Hints, CellHints{
				Club:      cell.Club,
				Country:   cell.Country,
				HintCount: h.Count,
			})
		}
	}
	return state
}

// RecentGame is one entry in a stats summary
type RecentGame struct {
	GameID           string    `json:"game_id"`
	Difficulty       string    `json:"difficulty"`
	Score            int       `json:"score"`
	CellsFilled      int       `json:"cells_filled"`
	HintsUsed        int       `json:"hints_used"`
	Completed        bool      `json:"completed"`
	TimeTakenSeconds int64     `json:"time_taken_seconds"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Stats is the response for the stats endpoint
type Stats struct {
	UserID           string                                     `json:"user_id"`
	TotalGames       int                                        `json:"total_games"`
	CompletedGames   int                                        `json:"completed_games"`
	CompletionRate   float64                                    `json:"completion_rate"`
	TotalScore       int                                        `json:"total_score"`
	AverageScore     float64                                    `json:"average_score"`
	TotalHints       int                                        `json:"total_hints"`
	TotalHintPenalty int                                        `json:"total_hint_penalty"`
	ByDifficulty     map[model.Difficulty]model.DifficultyStats `json:"by_difficulty"`
	RecentGames      []RecentGame                               `json:"recent_games"`
}

// StatsFromModel converts a model.StatsSummary
func StatsFromModel(s *model.StatsSummary) Stats {
	out := Stats{
		UserID:           string(s.UserID),
		TotalGames:       s.TotalGames,
		CompletedGames:   s.CompletedGames,
		CompletionRate:   s.CompletionRate,
		TotalScore:       s.TotalScore,
		AverageScore:     s.AverageScore,
		TotalHints:       s.TotalHints,
		TotalHintPenalty: s.TotalHintPenalty,
		ByDifficulty:     s.ByDifficulty,
		RecentGames:      make([]RecentGame, 0, len(s.Recent)),
	}
	for _, r := range s.Recent {
		out.RecentGames = append(out.RecentGames, RecentGame{
			GameID:           string(r.GameID),
			Difficulty:       string(r.Difficulty),
			Score:            r.Score,
			CellsFilled:      r.CellsFilled,
			HintsUsed:        r.HintsUsed,
			Completed:        r.Completed,
			TimeTakenSeconds: int64(r.TimeTaken / time.Second),
			FinishedAt:       r.FinishedAt,
		})
	}
	return out
}

// Health is the response for the health check
type Health struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

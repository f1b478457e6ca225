package model

import (
	"strings"
	"time"
)

// GameID uniquely identifies a game session
type GameID string

// Difficulty names a tier in the tier table (easy, medium, hard by default)
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// SessionStatus represents the current phase of a session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionGivenUp   SessionStatus = "given_up"
)

// GridSize is the number of clubs (rows) and countries (columns)
const GridSize = 3

// Cell is the intersection of a club row and a country column
type Cell struct {
	Club    string `json:"club"`
	Country string `json:"country"`
}

// CellKey is the map key form of a Cell
type CellKey string

// Key returns the map key for the cell
func (c Cell) Key() CellKey {
	return CellKey(c.Club + "|" + c.Country)
}

// FilledCell records the accepted answer for a cell
type FilledCell struct {
	PlayerID PlayerID  `json:"player_id"`
	Name     string    `json:"name"`
	Points   int       `json:"points"`
	FilledAt time.Time `json:"filled_at"`
}

// HintState tracks hints spent on one cell. Target is pinned on the first hint.
type HintState struct {
	Count  int      `json:"count"`
	Target PlayerID `json:"target"`
}

// Answer is a revealed or recorded answer for a cell
type Answer struct {
	Club     string   `json:"club"`
	Country  string   `json:"country"`
	Player   string   `json:"player"`
	PlayerID PlayerID `json:"id"`
}

// Session is the full state of one game
type Session struct {
	ID          GameID                 `json:"id"`
	Difficulty  Difficulty             `json:"difficulty"`
	Clubs       []string               `json:"clubs"`
	Countries   []string               `json:"countries"`
	Filled      map[CellKey]FilledCell `json:"filled"`
	Hints       map[CellKey]HintState  `json:"hints"`
	Score       int                    `json:"score"`
	HintPenalty int                    `json:"hint_penalty"`
	Status      SessionStatus          `json:"status"`
	Revealed    []Answer               `json:"revealed,omitempty"`
	UserID      UserID                 `json:"user_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// IsTerminal returns true once the session is completed or given up
func (s *Session) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionGivenUp
}

// IsFull returns true if every cell has been filled
func (s *Session) IsFull() bool {
	return len(s.Filled) == len(s.Clubs)*len(s.Countries)
}

// Cells returns the grid cells in row-major order
func (s *Session) Cells() []Cell {
	cells := make([]Cell, 0, len(s.Clubs)*len(s.Countries))
	for _, club := range s.Clubs {
		for _, country := range s.Countries {
			cells = append(cells, Cell{Club: club, Country: country})
		}
	}
	return cells
}

// FindCell resolves a club/country pair against the grid, ignoring case and
// surrounding whitespace. The returned cell uses the grid's spelling.
func (s *Session) FindCell(club, country string) (Cell, bool) {
	club = strings.TrimSpace(club)
	country = strings.TrimSpace(country)

	var cell Cell
	for _, c := range s.Clubs {
		if strings.EqualFold(c, club) {
			cell.Club = c
			break
		}
	}
	for _, c := range s.Countries {
		if strings.EqualFold(c, country) {
			cell.Country = c
			break
		}
	}
	if cell.Club == "" || cell.Country == "" {
		return Cell{}, false
	}
	return cell, true
}

// HintsUsed returns the total number of hints spent across all cells
func (s *Session) HintsUsed() int {
	total := 0
	for _, h := range s.Hints {
		total += h.Count
	}
	return total
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.Clubs = append([]string(nil), s.Clubs...)
	c.Countries = append([]string(nil), s.Countries...)
	c.Filled = make(map[CellKey]FilledCell, len(s.Filled))
	for k, v := range s.Filled {
		c.Filled[k] = v
	}
	c.Hints = make(map[CellKey]HintState, len(s.Hints))
	for k, v := range s.Hints {
		c.Hints[k] = v
	}
	if s.Revealed != nil {
		c.Revealed = append([]Answer(nil), s.Revealed...)
	}
	return &c
}

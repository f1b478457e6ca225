package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return NewOutputTo(format, os.Stdout)
}

// NewOutputTo creates a new Output formatter writing to w
func NewOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case User:
		o.printUser(v)
	case Grid:
		o.printGrid(v)
	case GuessResult:
		o.printGuessResult(v)
	case HintResult:
		o.printHintResult(v)
	case GiveUpResult:
		o.printGiveUpResult(v)
	case GameState:
		o.printGameState(v)
	case Stats:
		o.printStats(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// AuthResult combines user and token
type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Grid response type
type Grid struct {
	GameID     string   `json:"game_id"`
	Difficulty string   `json:"difficulty"`
	Clubs      []string `json:"clubs"`
	Countries  []string `json:"countries"`
}

// GuessResult response type
type GuessResult struct {
	Result       string `json:"result"`
	Player       string `json:"player,omitempty"`
	ID           string `json:"id,omitempty"`
	PointsEarned int    `json:"points_earned,omitempty"`
	Completed    *bool  `json:"completed,omitempty"`
	Score        int    `json:"score"`
}

// HintResult response type
type HintResult struct {
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

// Answer response type
type Answer struct {
	Club    string `json:"club"`
	Country string `json:"country"`
	Player  string `json:"player"`
	ID      string `json:"id"`
}

// GiveUpResult response type
type GiveUpResult struct {
	Answers []Answer `json:"answers"`
	Score   int      `json:"score"`
	Status  string   `json:"status"`
}

// FilledCell response type
type FilledCell struct {
	Club    string `json:"club"`
	Country string `json:"country"`
	Player  string `json:"player"`
	ID      string `json:"id"`
	Points  int    `json:"points"`
}

// CellHints response type
type CellHints struct {
	Club      string `json:"club"`
	Country   string `json:"country"`
	HintCount int    `json:"hint_count"`
}

// GameState response type
type GameState struct {
	GameID      string       `json:"game_id"`
	Difficulty  string       `json:"difficulty"`
	Clubs       []string     `json:"clubs"`
	Countries   []string     `json:"countries"`
	Filled      []FilledCell `json:"filled"`
	Hints       []CellHints  `json:"hints"`
	Score       int          `json:"score"`
	HintPenalty int          `json:"hint_penalty"`
	Status      string       `json:"status"`
	Answers     []Answer     `json:"answers,omitempty"`
}

// DifficultyStats response type
type DifficultyStats struct {
	Games        int     `json:"games"`
	Completed    int     `json:"completed"`
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// RecentGame response type
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

// Stats response type
type Stats struct {
	TotalGames       int                        `json:"total_games"`
	CompletedGames   int                        `json:"completed_games"`
	CompletionRate   float64                    `json:"completion_rate"`
	TotalScore       int                        `json:"total_score"`
	AverageScore     float64                    `json:"average_score"`
	TotalHints       int                        `json:"total_hints"`
	TotalHintPenalty int                        `json:"total_hint_penalty"`
	ByDifficulty     map[string]DifficultyStats `json:"by_difficulty"`
	RecentGames      []RecentGame               `json:"recent_games"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

func (o *Output) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(o.w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Fprintf(o.w, "Logged in as %s (%s)\n", a.User.Username, a.User.ID)
	fmt.Fprintf(o.w, "Session expires: %s\n", a.ExpiresAt.Format(time.RFC1123))
}

func (o *Output) printUser(u User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	if u.CreatedAt != nil {
		fmt.Fprintf(o.w, "Joined: %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func (o *Output) printGrid(g Grid) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.GameID, g.Difficulty)
	o.renderBoard(g.Clubs, g.Countries, func(club, country string) string { return "" })
}

// renderBoard draws the 3x3 grid with clubs as rows and countries as columns
func (o *Output) renderBoard(clubs, countries []string, cell func(club, country string) string) {
	t := o.newTable()

	header := table.Row{""}
	for _, country := range countries {
		header = append(header, country)
	}
	t.AppendHeader(header)

	for _, club := range clubs {
		row := table.Row{club}
		for _, country := range countries {
			row = append(row, cell(club, country))
		}
		t.AppendRow(row)
		t.AppendSeparator()
	}

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for i := range countries {
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter})
	}
	t.SetColumnConfigs(configs)
	t.Render()
}

func (o *Output) printGuessResult(r GuessResult) {
	if r.Result != "correct" {
		fmt.Fprintln(o.w, "Incorrect, try again")
		fmt.Fprintf(o.w, "Score: %d\n", r.Score)
		return
	}

	fmt.Fprintf(o.w, "Correct! %s (+%d)\n", r.Player, r.PointsEarned)
	fmt.Fprintf(o.w, "Score: %d\n", r.Score)
	if r.Completed != nil && *r.Completed {
		fmt.Fprintln(o.w, "Grid complete!")
	}
}

func (o *Output) printHintResult(h HintResult) {
	fmt.Fprintf(o.w, "%s / %s: %s\n", h.Club, h.Country, h.Hint)
	fmt.Fprintf(o.w, "Letters revealed: %d of %d\n", h.TotalLettersRevealed, h.NameLength)
	fmt.Fprintf(o.w, "Penalty: -%d (total -%d), hints left for this cell: %d\n", h.HintPenalty, h.TotalHintPenalty, h.HintsRemaining)
	fmt.Fprintf(o.w, "Score: %d\n", h.Score)
}

func (o *Output) printGiveUpResult(g GiveUpResult) {
	t := o.newTable()
	t.AppendHeader(table.Row{"Club", "Country", "Answer"})
	for _, a := range g.Answers {
		t.AppendRow(table.Row{a.Club, a.Country, a.Player})
	}
	t.Render()

	fmt.Fprintf(o.w, "Final score: %d (%s)\n", g.Score, g.Status)
}

func (o *Output) printGameState(g GameState) {
	fmt.Fprintf(o.w, "Game: %s (%s) - %s\n", g.GameID, g.Difficulty, g.Status)

	filled := make(map[string]string, len(g.Filled))
	for _, f := range g.Filled {
		filled[f.Club+"|"+f.Country] = f.Player
	}
	for _, a := range g.Answers {
		if _, ok := filled[a.Club+"|"+a.Country]; !ok {
			filled[a.Club+"|"+a.Country] = "(" + a.Player + ")"
		}
	}
	hints := make(map[string]int, len(g.Hints))
	for _, h := range g.Hints {
		hints[h.Club+"|"+h.Country] = h.HintCount
	}

	o.renderBoard(g.Clubs, g.Countries, func(club, country string) string {
		key := club + "|" + country
		if name, ok := filled[key]; ok {
			return name
		}
		if n := hints[key]; n > 0 {
			return fmt.Sprintf("%d hint%s", n, plural(n))
		}
		return ""
	})

	fmt.Fprintf(o.w, "Score: %d (hint penalty %d)\n", g.Score, g.HintPenalty)
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.w, "Games: %d (completed %d, %.0f%%)\n", s.TotalGames, s.CompletedGames, s.CompletionRate*100)
	fmt.Fprintf(o.w, "Score: %d total, %.1f average\n", s.TotalScore, s.AverageScore)
	fmt.Fprintf(o.w, "Hints: %d (penalty %d)\n", s.TotalHints, s.TotalHintPenalty)

	if len(s.ByDifficulty) > 0 {
		names := make([]string, 0, len(s.ByDifficulty))
		for name := range s.ByDifficulty {
			names = append(names, name)
		}
		sort.Strings(names)

		t := o.newTable()
		t.AppendHeader(table.Row{"Difficulty", "Games", "Completed", "Avg score"})
		for _, name := range names {
			d := s.ByDifficulty[name]
			t.AppendRow(table.Row{name, d.Games, d.Completed, fmt.Sprintf("%.1f", d.AverageScore)})
		}
		t.Render()
	}

	if len(s.RecentGames) > 0 {
		t := o.newTable()
		t.SetTitle("Recent games")
		t.AppendHeader(table.Row{"Game", "Difficulty", "Score", "Cells", "Hints", "Time", "Result"})
		for _, g := range s.RecentGames {
			result := "gave up"
			if g.Completed {
				result = "completed"
			}
			t.AppendRow(table.Row{
				g.GameID,
				g.Difficulty,
				g.Score,
				fmt.Sprintf("%d/9", g.CellsFilled),
				g.HintsUsed,
				(time.Duration(g.TimeTakenSeconds) * time.Second).String(),
				result,
			})
		}
		t.Render()
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Players: %d\n", h.Players)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("json", &buf)

	out.Print(Grid{GameID: "ABC123", Difficulty: "easy", Clubs: []string{"Chelsea"}, Countries: []string{"France"}})

	var grid Grid
	require.NoError(t, json.Unmarshal(buf.Bytes(), &grid))
	assert.Equal(t, "ABC123", grid.GameID)
	assert.Equal(t, []string{"Chelsea"}, grid.Clubs)
}

func TestOutputMessageJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutputTo("json", &buf).PrintMessage("Logged out")

	assert.JSONEq(t, `{"message":"Logged out"}`, buf.String())
}

func TestOutputGridText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(Grid{
		GameID:     "ABC123",
		Difficulty: "medium",
		Clubs:      []string{"Real Madrid", "Barcelona", "Chelsea"},
		Countries:  []string{"France", "Brazil", "Spain"},
	})

	text := buf.String()
	assert.Contains(t, text, "Game: ABC123 (medium)")
	for _, label := range []string{"Real Madrid", "Barcelona", "Chelsea", "FRANCE", "BRAZIL", "SPAIN"} {
		assert.Contains(t, text, label)
	}
}

func TestOutputGameStateText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(GameState{
		GameID:     "ABC123",
		Difficulty: "easy",
		Clubs:      []string{"Real Madrid", "Barcelona", "Chelsea"},
		Countries:  []string{"France", "Brazil", "Spain"},
		Filled:     []FilledCell{{Club: "Chelsea", Country: "France", Player: "N'Golo Kante", Points: 20}},
		Hints:      []CellHints{{Club: "Barcelona", Country: "Brazil", HintCount: 2}},
		Score:      17,
		Status:     "active",
	})

	text := buf.String()
	assert.Contains(t, text, "N'Golo Kante")
	assert.Contains(t, text, "2 hints")
	assert.Contains(t, text, "Score: 17")
}

func TestOutputGuessText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	completed := true
	out.Print(GuessResult{Result: "correct", Player: "Karim Benzema", PointsEarned: 20, Completed: &completed, Score: 180})
	assert.Contains(t, buf.String(), "Correct! Karim Benzema (+20)")
	assert.Contains(t, buf.String(), "Grid complete!")

	buf.Reset()
	out.Print(GuessResult{Result: "incorrect", Score: 40})
	assert.Contains(t, buf.String(), "Incorrect")
	assert.Contains(t, buf.String(), "Score: 40")
}

func TestOutputStatsText(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutputTo("text", &buf)

	out.Print(Stats{
		TotalGames:     2,
		CompletedGames: 1,
		CompletionRate: 0.5,
		TotalScore:     200,
		AverageScore:   100,
		ByDifficulty: map[string]DifficultyStats{
			"easy": {Games: 2, Completed: 1, TotalScore: 200, AverageScore: 100},
		},
		RecentGames: []RecentGame{
			{GameID: "G1", Difficulty: "easy", Score: 180, CellsFilled: 9, Completed: true, TimeTakenSeconds: 240},
		},
	})

	text := buf.String()
	assert.Contains(t, text, "Games: 2 (completed 1, 50%)")
	assert.Contains(t, text, "G1")
	assert.Contains(t, text, "9/9")
	assert.Contains(t, text, "4m0s")
}

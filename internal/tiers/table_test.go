package tiers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tikitakatoe/internal/model"
)

const sampleTable = `
default_tier: easy
max_attempts: 50
tiers:
  - name: easy
    points: 20
    min_cell_solutions: 2
    clubs: [Arsenal, Chelsea, Liverpool]
    countries: [England, France, Spain]
    fallback:
      clubs: [Arsenal, Chelsea, Liverpool]
      countries: [England, France, Spain]
  - name: medium
    extends: easy
    points: 50
    clubs: [Ajax, Chelsea]
    countries: [Netherlands]
`

func TestParseResolvesExtends(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	require.NoError(t, err)

	medium, err := table.Tier(model.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arsenal", "Chelsea", "Liverpool", "Ajax"}, medium.Clubs)
	assert.Equal(t, []string{"England", "France", "Spain", "Netherlands"}, medium.Countries)
	assert.Equal(t, 50, medium.Points)
	assert.Equal(t, 1, medium.MinCellSolutions)
	assert.Nil(t, medium.Fallback)
}

func TestParseSettings(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	require.NoError(t, err)

	assert.Equal(t, model.DifficultyEasy, table.Default())
	assert.Equal(t, 50, table.MaxAttempts())
	assert.Equal(t, []model.Difficulty{"easy", "medium"}, table.Names())

	easy, err := table.Tier(model.DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, 2, easy.MinCellSolutions)
	require.NotNil(t, easy.Fallback)
	assert.Equal(t, []string{"England", "France", "Spain"}, easy.Fallback.Countries)
}

func TestTierUnknown(t *testing.T) {
	table, err := Parse([]byte(sampleTable))
	require.NoError(t, err)

	_, err = table.Tier("legendary")
	assert.ErrorIs(t, err, model.ErrInvalidDifficulty)
}

func TestParseDefaultsMaxAttempts(t *testing.T) {
	table, err := Parse([]byte(`
tiers:
  - name: easy
    points: 20
    clubs: [A, B, C]
    countries: [X, Y, Z]
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxAttempts, table.MaxAttempts())
	assert.Equal(t, model.DifficultyEasy, table.Default())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no tiers", "tiers: []", "no tiers"},
		{"unknown parent", "tiers:\n  - {name: hard, extends: medium, points: 100, clubs: [A,B,C], countries: [X,Y,Z]}", "unknown tier"},
		{"too few clubs", "tiers:\n  - {name: easy, points: 20, clubs: [A,B], countries: [X,Y,Z]}", "at least 3"},
		{"zero points", "tiers:\n  - {name: easy, clubs: [A,B,C], countries: [X,Y,Z]}", "points"},
		{"bad default", "default_tier: hard\ntiers:\n  - {name: easy, points: 20, clubs: [A,B,C], countries: [X,Y,Z]}", "default tier"},
		{"duplicate", "tiers:\n  - {name: easy, points: 20, clubs: [A,B,C], countries: [X,Y,Z]}\n  - {name: easy, points: 20, clubs: [A,B,C], countries: [X,Y,Z]}", "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, table.Names(), 2)
}

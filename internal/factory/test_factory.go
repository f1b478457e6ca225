package factory

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/tikitakatoe/data"
	"github.com/mcoot/tikitakatoe/internal/dependencies/mocks"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/game"
	"github.com/mcoot/tikitakatoe/internal/storage/memory"
	"github.com/mcoot/tikitakatoe/internal/tiers"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The bundled tier table is used; the corpus must be loaded by the test.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	table, err := tiers.Parse(data.TiersYAML)
	if err != nil {
		panic("bundled tier table is invalid: " + err.Error())
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	app := newWithDependencies(store, table, mockClock, mockRandom, auth.DefaultConfig(), game.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestCorpus loads the bundled player corpus
func (t *TestApp) LoadTestCorpus() error {
	return t.CorpusService.LoadFromReader(context.Background(), bytes.NewReader(data.PlayersCSV))
}

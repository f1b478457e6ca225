package factory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/tikitakatoe/data"
	"github.com/mcoot/tikitakatoe/internal/dependencies/clock"
	"github.com/mcoot/tikitakatoe/internal/dependencies/random"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/corpus"
	"github.com/mcoot/tikitakatoe/internal/services/game"
	"github.com/mcoot/tikitakatoe/internal/services/grid"
	"github.com/mcoot/tikitakatoe/internal/services/scoring"
	"github.com/mcoot/tikitakatoe/internal/services/stats"
	"github.com/mcoot/tikitakatoe/internal/storage"
	"github.com/mcoot/tikitakatoe/internal/storage/memory"
	redisstorage "github.com/mcoot/tikitakatoe/internal/storage/redis"
	"github.com/mcoot/tikitakatoe/internal/tiers"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Configuration data
	Tiers *tiers.Table

	// Services
	CorpusService  *corpus.Service
	Generator      *grid.Generator
	ScoringService *scoring.Service
	StatsService   *stats.Service
	GameController *game.Controller
	AuthService    *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// CorpusPath is the path to a player CSV (optional)
	// If empty, a corpus already in storage is used, else the bundled one
	CorpusPath string
	// TiersPath is the path to a tier table YAML (optional)
	// If empty, the bundled table is used
	TiersPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GameConfig holds session lifecycle settings (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RandomSeed makes grid draws and generated ids reproducible (optional)
	// If zero, randomness is seeded from crypto/rand
	RandomSeed uint64
}

// New creates a new application with all dependencies wired and the player
// corpus loaded
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	gameCfg := cfg.GameConfig
	if gameCfg.SessionTTL == 0 {
		gameCfg = game.DefaultConfig()
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		if redisCfg.SessionTTL == 0 {
			redisCfg.SessionTTL = gameCfg.SessionTTL
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	table, err := loadTiers(cfg.TiersPath)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	var rnd random.Random = random.New()
	if cfg.RandomSeed != 0 {
		rnd = random.NewSeeded(cfg.RandomSeed)
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, table, clk, rnd, authCfg, gameCfg, logger)
	if err := app.loadCorpus(context.Background(), cfg.CorpusPath); err != nil {
		return nil, err
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	table *tiers.Table,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	// Create services
	corpusService := corpus.New(store, logger)
	generator := grid.NewGenerator(table, corpusService, rnd, logger)
	scoringService := scoring.New(table)
	statsService := stats.New(store, logger)
	gameController := game.NewController(store, corpusService, generator, scoringService, statsService, clk, rnd, logger, gameCfg)
	authService := auth.New(store, clk, authCfg, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Tiers:          table,
		CorpusService:  corpusService,
		Generator:      generator,
		ScoringService: scoringService,
		StatsService:   statsService,
		GameController: gameController,
		AuthService:    authService,
	}
}

func loadTiers(path string) (*tiers.Table, error) {
	if path != "" {
		return tiers.Load(path)
	}
	return tiers.Parse(data.TiersYAML)
}

// loadCorpus loads players from path, else from storage, else the bundled CSV
func (a *App) loadCorpus(ctx context.Context, path string) error {
	if path != "" {
		return a.CorpusService.LoadFromFile(ctx, path)
	}
	if err := a.CorpusService.LoadFromStorage(ctx); err == nil {
		return nil
	}
	if err := a.CorpusService.LoadFromReader(ctx, bytes.NewReader(data.PlayersCSV)); err != nil {
		return fmt.Errorf("load bundled corpus: %w", err)
	}
	return nil
}

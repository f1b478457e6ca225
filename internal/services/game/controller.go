package game

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/mcoot/tikitakatoe/internal/dependencies/clock"
	"github.com/mcoot/tikitakatoe/internal/dependencies/random"
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/corpus"
	"github.com/mcoot/tikitakatoe/internal/services/grid"
	"github.com/mcoot/tikitakatoe/internal/services/scoring"
	"github.com/mcoot/tikitakatoe/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var gameIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// errUnchanged aborts a session update without writing
var errUnchanged = errors.New("session unchanged")

// ResultRecorder receives the result of every attributed game once it ends
type ResultRecorder interface {
	RecordResult(ctx context.Context, result *model.GameResult) error
}

// Config holds session lifecycle settings
type Config struct {
	// SessionTTL is how long a session survives without activity
	SessionTTL time.Duration
}

// DefaultConfig returns the default session lifecycle settings
func DefaultConfig() Config {
	return Config{
		SessionTTL: 2 * time.Hour,
	}
}

// Controller runs the session state machine: creation, guesses, hints,
// give-up and reset. Every mutation of a session goes through a single
// storage update so concurrent requests for one game are serialised.
type Controller struct {
	storage        storage.Storage
	corpus         grid.IndexProvider
	generator      *grid.Generator
	scoringService *scoring.Service
	recorder       ResultRecorder
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
	cfg            Config
}

// NewController creates a new GameController. recorder may be nil.
func NewController(
	storage storage.Storage,
	corpus grid.IndexProvider,
	generator *grid.Generator,
	scoringService *scoring.Service,
	recorder ResultRecorder,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	return &Controller{
		storage:        storage,
		corpus:         corpus,
		generator:      generator,
		scoringService: scoringService,
		recorder:       recorder,
		clock:          clock,
		random:         random,
		logger:         logger,
		cfg:            cfg,
	}
}

// NewGameInput describes a game to create
type NewGameInput struct {
	// GameID is optional; one is generated when empty
	GameID model.GameID
	// Difficulty is optional; the default tier is used when empty
	Difficulty model.Difficulty
	UserID     model.UserID
}

// NewGame generates a grid and stores a fresh Active session. An existing
// session with the same id is replaced.
func (c *Controller) NewGame(ctx context.Context, in NewGameInput) (*model.Session, error) {
	gameID := in.GameID
	if gameID == "" {
		gameID = model.GameID(c.random.String(12, gameIDAlphabet))
	}
	if !gameIDPattern.MatchString(string(gameID)) {
		return nil, model.ErrInvalidGameID
	}

	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = c.generator.DefaultDifficulty()
	}

	g, err := c.generator.Generate(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:         gameID,
		Difficulty: g.Difficulty,
		Clubs:      g.Clubs,
		Countries:  g.Countries,
		Filled:     make(map[model.CellKey]model.FilledCell),
		Hints:      make(map[model.CellKey]model.HintState),
		Status:     model.SessionActive,
		UserID:     in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("difficulty", string(g.Difficulty)),
		slog.Bool("fallback", g.Fallback),
	)

	return session, nil
}

// GetSession retrieves a live session by ID
func (c *Controller) GetSession(ctx context.Context, gameID model.GameID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if c.expired(session) {
		return nil, model.ErrGameNotFound
	}
	return session, nil
}

// GuessInput is a player's attempt at a cell
type GuessInput struct {
	GameID  model.GameID
	Club    string
	Country string
	Player  string
	UserID  model.UserID
}

// GuessResult is the outcome of a guess. An incorrect guess is not an error.
type GuessResult struct {
	Correct      bool
	Cell         model.Cell
	PlayerID     model.PlayerID
	PlayerName   string
	PointsEarned int
	Completed    bool
	Score        int
}

// SubmitGuess checks a name against the solutions for a cell and, on a
// match, fills the cell and credits the tier's points.
func (c *Controller) SubmitGuess(ctx context.Context, in GuessInput) (*GuessResult, error) {
	if corpus.Normalize(in.Player) == "" {
		return nil, model.ErrEmptyGuess
	}
	idx, err := c.corpus.Index()
	if err != nil {
		return nil, err
	}

	var result *GuessResult
	session, err := c.storage.UpdateSession(ctx, in.GameID, func(s *model.Session) error {
		result = nil
		if c.expired(s) {
			return model.ErrGameNotFound
		}
		if s.IsTerminal() {
			return model.ErrGameOver
		}
		cell, ok := s.FindCell(in.Club, in.Country)
		if !ok {
			return model.ErrCellNotInGrid
		}
		if _, filled := s.Filled[cell.Key()]; filled {
			return model.ErrCellAlreadyFilled
		}

		player, ok := idx.MatchGuess(cell.Club, cell.Country, in.Player)
		if !ok {
			result = &GuessResult{Cell: cell, Score: s.Score}
			return errUnchanged
		}

		points, err := c.scoringService.PointsFor(s.Difficulty)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		s.Filled[cell.Key()] = model.FilledCell{
			PlayerID: player.ID,
			Name:     player.CanonicalName,
			Points:   points,
			FilledAt: now,
		}
		s.Score += points
		if s.IsFull() {
			s.Status = model.SessionCompleted
		}
		if s.UserID == "" {
			s.UserID = in.UserID
		}
		s.UpdatedAt = now

		result = &GuessResult{
			Correct:      true,
			Cell:         cell,
			PlayerID:     player.ID,
			PlayerName:   player.CanonicalName,
			PointsEarned: points,
			Completed:    s.Status == model.SessionCompleted,
			Score:        s.Score,
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("guess accepted",
		slog.String("game_id", string(in.GameID)),
		slog.String("club", result.Cell.Club),
		slog.String("country", result.Cell.Country),
		slog.String("player_id", string(result.PlayerID)),
	)

	if result.Completed {
		c.logger.Info("game completed",
			slog.String("game_id", string(session.ID)),
			slog.Int("score", session.Score),
		)
		c.record(ctx, session)
	}
	return result, nil
}

// HintResult is one progressive reveal of a cell's pinned answer
type HintResult struct {
	Hint             string
	Cell             model.Cell
	HintCount        int
	LettersRevealed  int
	NameLength       int
	HintPenalty      int
	TotalHintPenalty int
	HintsRemaining   int
	Score            int
}

// Hint reveals one more letter of the cell's answer and deducts the hint
// penalty. The answer is pinned on the first hint and reused afterwards.
// The hint count is tracked here and any client-side count is ignored.
func (c *Controller) Hint(ctx context.Context, gameID model.GameID, club, country string) (*HintResult, error) {
	idx, err := c.corpus.Index()
	if err != nil {
		return nil, err
	}

	var result *HintResult
	_, err = c.storage.UpdateSession(ctx, gameID, func(s *model.Session) error {
		result = nil
		if c.expired(s) {
			return model.ErrGameNotFound
		}
		if s.IsTerminal() {
			return model.ErrGameOver
		}
		cell, ok := s.FindCell(club, country)
		if !ok {
			return model.ErrCellNotInGrid
		}
		if _, filled := s.Filled[cell.Key()]; filled {
			return model.ErrCellAlreadyFilled
		}

		state := s.Hints[cell.Key()]
		if state.Count >= scoring.MaxHints {
			return model.ErrHintLimitReached
		}

		target, ok := idx.Player(state.Target)
		if !ok {
			solutions := idx.Solutions(cell.Club, cell.Country)
			if len(solutions) == 0 {
				return model.ErrCellNotInGrid
			}
			target = solutions[c.random.Intn(len(solutions))]
			state.Target = target.ID
		}

		state.Count++
		penalty := c.scoringService.HintPenalty(state.Count)
		s.Hints[cell.Key()] = state
		s.Score = c.scoringService.ApplyPenalty(s.Score, penalty)
		s.HintPenalty += penalty
		s.UpdatedAt = c.clock.Now()

		masked, revealed, length := MaskName(target.CanonicalName, state.Count)
		result = &HintResult{
			Hint:             masked,
			Cell:             cell,
			HintCount:        state.Count,
			LettersRevealed:  revealed,
			NameLength:       length,
			HintPenalty:      penalty,
			TotalHintPenalty: s.HintPenalty,
			HintsRemaining:   scoring.MaxHints - state.Count,
			Score:            s.Score,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("hint given",
		slog.String("game_id", string(gameID)),
		slog.String("club", result.Cell.Club),
		slog.String("country", result.Cell.Country),
		slog.Int("hint_count", result.HintCount),
	)
	return result, nil
}

// GiveUpResult holds an answer for every cell of the grid
type GiveUpResult struct {
	Answers []model.Answer
	Score   int
	Status  model.SessionStatus
}

// GiveUp reveals an answer for every cell and closes the session. Filled
// cells keep their recorded answer; unfilled cells show the hinted answer if
// one was pinned, otherwise the first solution. Calling it again returns the
// same answers.
func (c *Controller) GiveUp(ctx context.Context, gameID model.GameID) (*GiveUpResult, error) {
	idx, err := c.corpus.Index()
	if err != nil {
		return nil, err
	}

	var result *GiveUpResult
	session, err := c.storage.UpdateSession(ctx, gameID, func(s *model.Session) error {
		result = nil
		if c.expired(s) {
			return model.ErrGameNotFound
		}

		switch s.Status {
		case model.SessionGivenUp:
			result = &GiveUpResult{Answers: s.Revealed, Score: s.Score, Status: s.Status}
			return errUnchanged
		case model.SessionCompleted:
			result = &GiveUpResult{Answers: revealAnswers(s, idx), Score: s.Score, Status: s.Status}
			return errUnchanged
		}

		s.Revealed = revealAnswers(s, idx)
		s.Status = model.SessionGivenUp
		s.UpdatedAt = c.clock.Now()
		result = &GiveUpResult{Answers: s.Revealed, Score: s.Score, Status: s.Status}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("game given up",
		slog.String("game_id", string(gameID)),
		slog.Int("score", session.Score),
		slog.Int("cells_filled", len(session.Filled)),
	)
	c.record(ctx, session)
	return result, nil
}

func revealAnswers(s *model.Session, idx *corpus.Index) []model.Answer {
	answers := make([]model.Answer, 0, len(s.Clubs)*len(s.Countries))
	for _, cell := range s.Cells() {
		answer := model.Answer{Club: cell.Club, Country: cell.Country}

		if filled, ok := s.Filled[cell.Key()]; ok {
			answer.Player = filled.Name
			answer.PlayerID = filled.PlayerID
		} else if p, ok := idx.Player(s.Hints[cell.Key()].Target); ok {
			answer.Player = p.CanonicalName
			answer.PlayerID = p.ID
		} else if solutions := idx.Solutions(cell.Club, cell.Country); len(solutions) > 0 {
			answer.Player = solutions[0].CanonicalName
			answer.PlayerID = solutions[0].ID
		}

		answers = append(answers, answer)
	}
	return answers
}

// Reset replaces the grid of an existing session with a newly generated one
// at the same difficulty, clearing all progress.
func (c *Controller) Reset(ctx context.Context, gameID model.GameID) (*model.Session, error) {
	current, err := c.GetSession(ctx, gameID)
	if err != nil {
		return nil, err
	}

	g, err := c.generator.Generate(ctx, current.Difficulty)
	if err != nil {
		return nil, err
	}

	session, err := c.storage.UpdateSession(ctx, gameID, func(s *model.Session) error {
		if c.expired(s) {
			return model.ErrGameNotFound
		}
		now := c.clock.Now()
		s.Clubs = append([]string(nil), g.Clubs...)
		s.Countries = append([]string(nil), g.Countries...)
		s.Filled = make(map[model.CellKey]model.FilledCell)
		s.Hints = make(map[model.CellKey]model.HintState)
		s.Score = 0
		s.HintPenalty = 0
		s.Status = model.SessionActive
		s.Revealed = nil
		s.CreatedAt = now
		s.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("game reset",
		slog.String("game_id", string(gameID)),
		slog.String("difficulty", string(session.Difficulty)),
	)
	return session, nil
}

// EvictExpired removes sessions idle for longer than the session TTL
func (c *Controller) EvictExpired(ctx context.Context) (int, error) {
	if c.cfg.SessionTTL <= 0 {
		return 0, nil
	}
	return c.storage.EvictIdleSessions(ctx, c.clock.Now().Add(-c.cfg.SessionTTL))
}

// RunEviction calls EvictExpired every interval until ctx is done
func (c *Controller) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := c.EvictExpired(ctx)
			if err != nil {
				c.logger.Error("session eviction failed", slog.String("error", err.Error()))
				continue
			}
			if evicted > 0 {
				c.logger.Info("evicted idle sessions", slog.Int("count", evicted))
			}
		}
	}
}

func (c *Controller) expired(s *model.Session) bool {
	return c.cfg.SessionTTL > 0 && c.clock.Now().Sub(s.UpdatedAt) > c.cfg.SessionTTL
}

// record hands a finished game to the recorder. Failures are logged only;
// the game itself has already been saved.
func (c *Controller) record(ctx context.Context, s *model.Session) {
	if c.recorder == nil || s.UserID == "" {
		return
	}
	now := c.clock.Now()
	result := &model.GameResult{
		GameID:      s.ID,
		UserID:      s.UserID,
		Difficulty:  s.Difficulty,
		Score:       s.Score,
		CellsFilled: len(s.Filled),
		HintsUsed:   s.HintsUsed(),
		HintPenalty: s.HintPenalty,
		Completed:   s.Status == model.SessionCompleted,
		TimeTaken:   now.Sub(s.CreatedAt),
		FinishedAt:  now,
	}
	if err := c.recorder.RecordResult(ctx, result); err != nil {
		c.logger.Error("failed to record game result",
			slog.String("game_id", string(s.ID)),
			slog.String("error", err.Error()),
		)
	}
}

package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tikitakatoe/internal/dependencies/mocks"
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/corpus"
	"github.com/mcoot/tikitakatoe/internal/services/grid"
	"github.com/mcoot/tikitakatoe/internal/services/scoring"
	"github.com/mcoot/tikitakatoe/internal/storage/memory"
	"github.com/mcoot/tikitakatoe/internal/testutil"
	"github.com/mcoot/tikitakatoe/internal/tiers"
)

const testPlayers = `player_id,name,country,clubs,aliases
rm-fr-1,Karim Benzema,France,Real Madrid|Lyon,
rm-fr-2,Raphaël Varane,France,Real Madrid|Man United,
rm-br-1,Roberto Carlos,Brazil,Real Madrid|Inter,
rm-br-2,Marcelo,Brazil,Real Madrid,
rm-es-1,Sergio Ramos,Spain,Real Madrid|Sevilla,
rm-es-2,Iker Casillas,Spain,Real Madrid|Porto,
fc-fr-1,Thierry Henry,France,Barcelona|Arsenal,
fc-fr-2,Antoine Griezmann,France,Barcelona|Atletico Madrid,
fc-br-1,Ronaldinho,Brazil,Barcelona|PSG,
fc-br-2,Neymar,Brazil,Barcelona|PSG,Neymar Jr
fc-es-1,Xavi Hernández,Spain,Barcelona,Xavi
fc-es-2,Andrés Iniesta,Spain,Barcelona,
ch-fr-1,N'Golo Kanté,France,Chelsea|Leicester,
ch-fr-2,Olivier Giroud,France,Chelsea|Arsenal,
ch-br-1,Willian,Brazil,Chelsea|Arsenal,
ch-br-2,Thiago Silva,Brazil,Chelsea|PSG,
ch-es-1,Fernando Torres,Spain,Chelsea|Liverpool,
ch-es-2,César Azpilicueta,Spain,Chelsea,
`

const testTiers = `
default_tier: easy
tiers:
  - name: easy
    points: 20
    min_cell_solutions: 2
    clubs: [Real Madrid, Barcelona, Chelsea]
    countries: [France, Brazil, Spain]
  - name: hard
    points: 100
    clubs: [Real Madrid, Barcelona, Chelsea]
    countries: [France, Brazil, Spain]
`

// One accepted answer per cell of the easy grid, row-major
var easyAnswers = []struct{ club, country, player string }{
	{"Real Madrid", "France", "Benzema"},
	{"Real Madrid", "Brazil", "Roberto Carlos"},
	{"Real Madrid", "Spain", "sergio ramos"},
	{"Barcelona", "France", "Thierry Henry"},
	{"Barcelona", "Brazil", "Ronaldinho"},
	{"Barcelona", "Spain", "Xavi"},
	{"Chelsea", "France", "kante"},
	{"Chelsea", "Brazil", "Willian"},
	{"Chelsea", "Spain", "Azpilicueta"},
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []*model.GameResult
}

func (r *fakeRecorder) RecordResult(ctx context.Context, result *model.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	corpus     *corpus.Service
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	recorder   *fakeRecorder
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.recorder = &fakeRecorder{}
	logger := testutil.NopLogger()

	s.corpus = corpus.New(s.storage, logger)
	s.Require().NoError(s.corpus.LoadFromReader(s.ctx, strings.NewReader(testPlayers)))

	table, err := tiers.Parse([]byte(testTiers))
	s.Require().NoError(err)

	generator := grid.NewGenerator(table, s.corpus, s.random, logger)
	s.controller = NewController(
		s.storage, s.corpus, generator, scoring.New(table), s.recorder,
		s.clock, s.random, logger, DefaultConfig(),
	)
}

func (s *ControllerSuite) newGame(difficulty model.Difficulty) *model.Session {
	session, err := s.controller.NewGame(s.ctx, NewGameInput{GameID: "GAME1", Difficulty: difficulty})
	s.Require().NoError(err)
	return session
}

func (s *ControllerSuite) guess(club, country, player string) (*GuessResult, error) {
	return s.controller.SubmitGuess(s.ctx, GuessInput{GameID: "GAME1", Club: club, Country: country, Player: player})
}

// NewGame tests

func (s *ControllerSuite) TestNewGameSucceeds() {
	session := s.newGame(model.DifficultyEasy)

	s.Equal(model.GameID("GAME1"), session.ID)
	s.Equal(model.DifficultyEasy, session.Difficulty)
	s.Equal([]string{"Real Madrid", "Barcelona", "Chelsea"}, session.Clubs)
	s.Equal([]string{"France", "Brazil", "Spain"}, session.Countries)
	s.Equal(model.SessionActive, session.Status)
	s.Empty(session.Filled)
	s.Equal(0, session.Score)

	stored, err := s.controller.GetSession(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(session.Clubs, stored.Clubs)
}

func (s *ControllerSuite) TestNewGameDefaultsDifficulty() {
	session := s.newGame("")
	s.Equal(model.DifficultyEasy, session.Difficulty)
}

func (s *ControllerSuite) TestNewGameGeneratesID() {
	s.random.QueueString("GAME12345678")

	session, err := s.controller.NewGame(s.ctx, NewGameInput{})
	s.Require().NoError(err)
	s.Equal(model.GameID("GAME12345678"), session.ID)
}

func (s *ControllerSuite) TestNewGameRejectsInvalidID() {
	_, err := s.controller.NewGame(s.ctx, NewGameInput{GameID: "not a valid id!"})
	s.ErrorIs(err, model.ErrInvalidGameID)
}

func (s *ControllerSuite) TestNewGameRejectsUnknownDifficulty() {
	_, err := s.controller.NewGame(s.ctx, NewGameInput{GameID: "GAME1", Difficulty: "legendary"})
	s.ErrorIs(err, model.ErrInvalidDifficulty)

	_, err = s.controller.GetSession(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestNewGameReplacesExistingSession() {
	s.newGame(model.DifficultyEasy)
	_, err := s.guess("Real Madrid", "France", "Benzema")
	s.Require().NoError(err)

	session := s.newGame(model.DifficultyHard)
	s.Equal(model.DifficultyHard, session.Difficulty)
	s.Empty(session.Filled)
	s.Equal(0, session.Score)
}

func (s *ControllerSuite) TestGetSessionNotFound() {
	_, err := s.controller.GetSession(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// SubmitGuess tests

func (s *ControllerSuite) TestSubmitGuessCorrect() {
	s.newGame(model.DifficultyEasy)

	result, err := s.guess("Real Madrid", "France", "Karim Benzema")
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(model.PlayerID("rm-fr-1"), result.PlayerID)
	s.Equal("Karim Benzema", result.PlayerName)
	s.Equal(20, result.PointsEarned)
	s.Equal(20, result.Score)
	s.False(result.Completed)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal("Karim Benzema", session.Filled["Real Madrid|France"].Name)
	s.Equal(20, session.Score)
}

func (s *ControllerSuite) TestSubmitGuessCaseInsensitiveAndSurname() {
	s.newGame(model.DifficultyEasy)

	result, err := s.guess("real madrid", "FRANCE", "  VARANE ")
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(model.PlayerID("rm-fr-2"), result.PlayerID)
	s.Equal(model.Cell{Club: "Real Madrid", Country: "France"}, result.Cell)
}

func (s *ControllerSuite) TestSubmitGuessHardAwardsMorePoints() {
	s.newGame(model.DifficultyHard)

	result, err := s.guess("Barcelona", "Brazil", "Neymar Jr")
	s.Require().NoError(err)
	s.True(result.Correct)
	s.Equal(100, result.PointsEarned)
}

func (s *ControllerSuite) TestSubmitGuessIncorrectDoesNotMutate() {
	created := s.newGame(model.DifficultyEasy).UpdatedAt
	s.clock.Advance(time.Minute)

	result, err := s.guess("Real Madrid", "France", "Thierry Henry")
	s.Require().NoError(err)
	s.False(result.Correct)
	s.Equal(0, result.Score)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Empty(session.Filled)
	s.Equal(created, session.UpdatedAt)
}

func (s *ControllerSuite) TestSubmitGuessCellNotInGrid() {
	s.newGame(model.DifficultyEasy)

	_, err := s.guess("Arsenal", "France", "Thierry Henry")
	s.ErrorIs(err, model.ErrCellNotInGrid)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Empty(session.Filled)
	s.Equal(0, session.Score)
}

func (s *ControllerSuite) TestSubmitGuessAlreadyFilled() {
	s.newGame(model.DifficultyEasy)
	_, err := s.guess("Real Madrid", "France", "Benzema")
	s.Require().NoError(err)

	_, err = s.guess("Real Madrid", "France", "Varane")
	s.ErrorIs(err, model.ErrCellAlreadyFilled)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(20, session.Score)
	s.Equal(model.PlayerID("rm-fr-1"), session.Filled["Real Madrid|France"].PlayerID)
}

func (s *ControllerSuite) TestSubmitGuessEmptyName() {
	s.newGame(model.DifficultyEasy)

	_, err := s.guess("Real Madrid", "France", "  ")
	s.ErrorIs(err, model.ErrEmptyGuess)
}

func (s *ControllerSuite) TestSubmitGuessUnknownGame() {
	_, err := s.guess("Real Madrid", "France", "Benzema")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestCompleteEasyGrid() {
	s.newGame(model.DifficultyEasy)

	for i, a := range easyAnswers {
		result, err := s.guess(a.club, a.country, a.player)
		s.Require().NoError(err, a.player)
		s.True(result.Correct, a.player)
		s.Equal(20, result.PointsEarned)
		s.Equal(20*(i+1), result.Score)
		s.Equal(i == len(easyAnswers)-1, result.Completed)
	}

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(model.SessionCompleted, session.Status)
	s.Equal(180, session.Score)

	_, err := s.guess("Real Madrid", "France", "Varane")
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestConcurrentGuessesOnOneCell() {
	s.newGame(model.DifficultyEasy)

	var wg sync.WaitGroup
	var mu sync.Mutex
	correct, filled := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.guess("Chelsea", "Spain", "Fernando Torres")
			mu.Lock()
			defer mu.Unlock()
			if err == nil && result.Correct {
				correct++
			} else if errors.Is(err, model.ErrCellAlreadyFilled) {
				filled++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, correct)
	s.Equal(9, filled)
	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(20, session.Score)
}

// Hint tests

func (s *ControllerSuite) TestHintRevealsProgressivelyAndCaps() {
	s.newGame(model.DifficultyEasy)

	previous := 0
	for n := 1; n <= scoring.MaxHints; n++ {
		result, err := s.controller.Hint(s.ctx, "GAME1", "Real Madrid", "France")
		s.Require().NoError(err)
		s.Equal(n, result.HintCount)
		s.Equal(n, result.LettersRevealed)
		s.GreaterOrEqual(result.LettersRevealed, previous)
		s.Equal(12, result.NameLength)
		s.Equal(n, result.HintPenalty)
		s.Equal(scoring.MaxHints-n, result.HintsRemaining)
		s.Equal(0, result.Score)
		previous = result.LettersRevealed
	}

	_, err := s.controller.Hint(s.ctx, "GAME1", "Real Madrid", "France")
	s.ErrorIs(err, model.ErrHintLimitReached)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(scoring.MaxHints, session.Hints["Real Madrid|France"].Count)
	s.Equal(15, session.HintPenalty)
	s.Equal(0, session.Score)
}

func (s *ControllerSuite) TestHintPenaltyDeductsFromScore() {
	s.newGame(model.DifficultyEasy)
	_, err := s.guess("Real Madrid", "France", "Benzema")
	s.Require().NoError(err)

	expected := []int{19, 17, 14, 10, 5}
	for _, want := range expected {
		result, err := s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Brazil")
		s.Require().NoError(err)
		s.Equal(want, result.Score)
	}

	// Sixth hint is rejected and leaves the score alone
	_, err = s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Brazil")
	s.ErrorIs(err, model.ErrHintLimitReached)
	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(5, session.Score)
}

func (s *ControllerSuite) TestHintPinsTarget() {
	s.newGame(model.DifficultyEasy)
	s.random.QueueIntn(1)

	first, err := s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Brazil")
	s.Require().NoError(err)
	s.Equal("T_____ _____", first.Hint)

	// Later draws would pick the first solution; the pinned target wins
	second, err := s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Brazil")
	s.Require().NoError(err)
	s.Equal("Th____ _____", second.Hint)

	session, _ := s.controller.GetSession(s.ctx, "GAME1")
	s.Equal(model.PlayerID("ch-br-2"), session.Hints["Chelsea|Brazil"].Target)
}

func (s *ControllerSuite) TestHintOnFilledCell() {
	s.newGame(model.DifficultyEasy)
	_, _ = s.guess("Real Madrid", "France", "Benzema")

	_, err := s.controller.Hint(s.ctx, "GAME1", "Real Madrid", "France")
	s.ErrorIs(err, model.ErrCellAlreadyFilled)
}

func (s *ControllerSuite) TestHintCellNotInGrid() {
	s.newGame(model.DifficultyEasy)

	_, err := s.controller.Hint(s.ctx, "GAME1", "Arsenal", "France")
	s.ErrorIs(err, model.ErrCellNotInGrid)
}

// GiveUp tests

func (s *ControllerSuite) TestGiveUpRevealsAllCells() {
	s.newGame(model.DifficultyEasy)
	_, _ = s.guess("Real Madrid", "France", "Varane")
	s.random.QueueIntn(1)
	_, err := s.controller.Hint(s.ctx, "GAME1", "Barcelona", "Spain")
	s.Require().NoError(err)

	result, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.SessionGivenUp, result.Status)
	s.Require().Len(result.Answers, 9)

	byCell := make(map[string]model.Answer)
	for _, a := range result.Answers {
		s.NotEmpty(a.Player)
		byCell[a.Club+"|"+a.Country] = a
	}
	s.Equal("Raphaël Varane", byCell["Real Madrid|France"].Player)
	s.Equal("Andrés Iniesta", byCell["Barcelona|Spain"].Player)
	s.Equal("Roberto Carlos", byCell["Real Madrid|Brazil"].Player)
	s.Equal(model.PlayerID("rm-br-1"), byCell["Real Madrid|Brazil"].PlayerID)
}

func (s *ControllerSuite) TestGiveUpIsIdempotent() {
	s.newGame(model.DifficultyEasy)
	_, _ = s.guess("Real Madrid", "France", "Benzema")

	first, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)
	second, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(20, second.Score)
}

func (s *ControllerSuite) TestGiveUpClosesSession() {
	s.newGame(model.DifficultyEasy)
	_, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)

	_, err = s.guess("Real Madrid", "France", "Benzema")
	s.ErrorIs(err, model.ErrGameOver)
	_, err = s.controller.Hint(s.ctx, "GAME1", "Real Madrid", "France")
	s.ErrorIs(err, model.ErrGameOver)
}

func (s *ControllerSuite) TestGiveUpOnCompletedSession() {
	s.newGame(model.DifficultyEasy)
	for _, a := range easyAnswers {
		_, err := s.guess(a.club, a.country, a.player)
		s.Require().NoError(err)
	}

	result, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.SessionCompleted, result.Status)
	s.Equal(180, result.Score)
	s.Len(result.Answers, 9)
}

func (s *ControllerSuite) TestGiveUpUnknownGame() {
	_, err := s.controller.GiveUp(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Reset tests

func (s *ControllerSuite) TestResetClearsProgress() {
	s.newGame(model.DifficultyHard)
	_, _ = s.guess("Real Madrid", "France", "Benzema")
	_, _ = s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Spain")
	_, _ = s.controller.GiveUp(s.ctx, "GAME1")
	s.clock.Advance(time.Minute)

	session, err := s.controller.Reset(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.GameID("GAME1"), session.ID)
	s.Equal(model.DifficultyHard, session.Difficulty)
	s.Equal(model.SessionActive, session.Status)
	s.Empty(session.Filled)
	s.Empty(session.Hints)
	s.Empty(session.Revealed)
	s.Equal(0, session.Score)
	s.Equal(0, session.HintPenalty)
	s.Equal(s.clock.Now(), session.CreatedAt)

	result, err := s.guess("Real Madrid", "France", "Benzema")
	s.Require().NoError(err)
	s.True(result.Correct)
}

func (s *ControllerSuite) TestResetUnknownGame() {
	_, err := s.controller.Reset(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Lifecycle tests

func (s *ControllerSuite) TestSessionExpiresAfterInactivity() {
	s.newGame(model.DifficultyEasy)
	s.clock.Advance(DefaultConfig().SessionTTL + time.Second)

	_, err := s.controller.GetSession(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.guess("Real Madrid", "France", "Benzema")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestActivityExtendsSession() {
	s.newGame(model.DifficultyEasy)
	s.clock.Advance(DefaultConfig().SessionTTL - time.Minute)
	_, err := s.guess("Real Madrid", "France", "Benzema")
	s.Require().NoError(err)

	s.clock.Advance(DefaultConfig().SessionTTL - time.Minute)
	_, err = s.controller.GetSession(s.ctx, "GAME1")
	s.NoError(err)
}

func (s *ControllerSuite) TestEvictExpired() {
	s.newGame(model.DifficultyEasy)
	s.clock.Advance(DefaultConfig().SessionTTL + time.Second)

	evicted, err := s.controller.EvictExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, evicted)

	_, err = s.storage.GetSession(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Result recording tests

func (s *ControllerSuite) TestCompletedGameIsRecordedForUser() {
	_, err := s.controller.NewGame(s.ctx, NewGameInput{GameID: "GAME1", UserID: "user-1"})
	s.Require().NoError(err)
	_, err = s.controller.Hint(s.ctx, "GAME1", "Chelsea", "Spain")
	s.Require().NoError(err)
	s.clock.Advance(3 * time.Minute)

	for _, a := range easyAnswers {
		_, err := s.guess(a.club, a.country, a.player)
		s.Require().NoError(err)
	}

	s.Require().Len(s.recorder.results, 1)
	r := s.recorder.results[0]
	s.Equal(model.UserID("user-1"), r.UserID)
	s.True(r.Completed)
	s.Equal(180, r.Score)
	s.Equal(1, r.HintsUsed)
	s.Equal(1, r.HintPenalty)
	s.Equal(9, r.CellsFilled)
	s.Equal(3*time.Minute, r.TimeTaken)
}

func (s *ControllerSuite) TestGuessAttributesUser() {
	s.newGame(model.DifficultyEasy)
	_, err := s.controller.SubmitGuess(s.ctx, GuessInput{
		GameID: "GAME1", Club: "Real Madrid", Country: "France", Player: "Benzema", UserID: "user-2",
	})
	s.Require().NoError(err)

	_, err = s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)
	_, err = s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)

	s.Require().Len(s.recorder.results, 1)
	s.Equal(model.UserID("user-2"), s.recorder.results[0].UserID)
	s.False(s.recorder.results[0].Completed)
}

func (s *ControllerSuite) TestAnonymousGamesAreNotRecorded() {
	s.newGame(model.DifficultyEasy)
	_, err := s.controller.GiveUp(s.ctx, "GAME1")
	s.Require().NoError(err)

	s.Empty(s.recorder.results)
}

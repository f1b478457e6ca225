package scoring

import (
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/tiers"
)

// MaxHints is the number of hints a single cell may receive
const MaxHints = 5

// Service provides difficulty-weighted awards and hint penalties
type Service struct {
	tiers *tiers.Table
}

// New creates a new ScoringService
func New(table *tiers.Table) *Service {
	return &Service{
		tiers: table,
	}
}

// PointsFor returns the award for a correct guess at the given difficulty
func (s *Service) PointsFor(difficulty model.Difficulty) (int, error) {
	tier, err := s.tiers.Tier(difficulty)
	if err != nil {
		return 0, err
	}
	return tier.Points, nil
}

// HintPenalty returns the deduction for the nth hint on a cell (1-based)
func (s *Service) HintPenalty(hintNumber int) int {
	if hintNumber < 0 {
		return 0
	}
	return hintNumber
}

// ApplyPenalty deducts a penalty from a score, never going below zero
func (s *Service) ApplyPenalty(score, penalty int) int {
	return max(0, score-penalty)
}

// Interface check
type ServiceInterface interface {
	PointsFor(difficulty model.Difficulty) (int, error)
	HintPenalty(hintNumber int) int
	ApplyPenalty(score, penalty int) int
}

var _ ServiceInterface = (*Service)(nil)

package grid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tikitakatoe/internal/dependencies/random"
	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/corpus"
	"github.com/mcoot/tikitakatoe/internal/tiers"
)

// IndexProvider exposes the current corpus index
type IndexProvider interface {
	Index() (*corpus.Index, error)
}

// Grid is a verified set of clubs and countries
type Grid struct {
	Difficulty model.Difficulty
	Clubs      []string
	Countries  []string
	Fallback   bool
}

// Generator samples grids in which every cell has enough solutions
type Generator struct {
	tiers  *tiers.Table
	corpus IndexProvider
	random random.Random
	logger *slog.Logger
}

// NewGenerator creates a new grid Generator
func NewGenerator(table *tiers.Table, corpus IndexProvider, random random.Random, logger *slog.Logger) *Generator {
	return &Generator{
		tiers:  table,
		corpus: corpus,
		random: random,
		logger: logger,
	}
}

// DefaultDifficulty returns the tier used when none is requested
func (g *Generator) DefaultDifficulty() model.Difficulty {
	return g.tiers.Default()
}

// Generate samples a grid for the difficulty. Three clubs are drawn from the
// tier pool, then three countries from those covering all three clubs. If the
// sampling budget runs out the tier's fallback grid is used, provided it
// still verifies against the current corpus.
func (g *Generator) Generate(ctx context.Context, difficulty model.Difficulty) (*Grid, error) {
	tier, err := g.tiers.Tier(difficulty)
	if err != nil {
		return nil, err
	}
	idx, err := g.corpus.Index()
	if err != nil {
		return nil, err
	}

	clubs := filter(tier.Clubs, idx.HasClub)
	countries := filter(tier.Countries, idx.HasCountry)

	if len(clubs) >= model.GridSize && len(countries) >= model.GridSize {
		for attempt := 0; attempt < g.tiers.MaxAttempts(); attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			rowClubs := random.Sample(g.random, clubs, model.GridSize)
			eligible := filter(countries, func(country string) bool {
				for _, club := range rowClubs {
					if idx.SolutionCount(club, country) < tier.MinCellSolutions {
						return false
					}
				}
				return true
			})
			if len(eligible) < model.GridSize {
				continue
			}

			colCountries := random.Sample(g.random, eligible, model.GridSize)
			if Validate(idx, rowClubs, colCountries, tier.MinCellSolutions) != nil {
				continue
			}
			return &Grid{
				Difficulty: tier.Name,
				Clubs:      rowClubs,
				Countries:  colCountries,
			}, nil
		}
	}

	if tier.Fallback != nil {
		err := Validate(idx, tier.Fallback.Clubs, tier.Fallback.Countries, tier.MinCellSolutions)
		if err == nil {
			g.logger.Warn("grid sampling exhausted, using fallback",
				slog.String("difficulty", string(tier.Name)),
			)
			return &Grid{
				Difficulty: tier.Name,
				Clubs:      append([]string(nil), tier.Fallback.Clubs...),
				Countries:  append([]string(nil), tier.Fallback.Countries...),
				Fallback:   true,
			}, nil
		}
		g.logger.Error("fallback grid does not verify",
			slog.String("difficulty", string(tier.Name)),
			slog.String("error", err.Error()),
		)
	}

	return nil, fmt.Errorf("%w: difficulty %q", model.ErrGenerationFailed, tier.Name)
}

// Validate checks that a grid has distinct clubs and countries of the right
// size and that every cell has at least minSolutions answers.
func Validate(idx *corpus.Index, clubs, countries []string, minSolutions int) error {
	if len(clubs) != model.GridSize || len(countries) != model.GridSize {
		return fmt.Errorf("grid must have %d clubs and %d countries", model.GridSize, model.GridSize)
	}
	if hasDuplicates(clubs) || hasDuplicates(countries) {
		return fmt.Errorf("grid clubs and countries must be distinct")
	}
	if minSolutions < 1 {
		minSolutions = 1
	}
	for _, club := range clubs {
		for _, country := range countries {
			if n := idx.SolutionCount(club, country); n < minSolutions {
				return fmt.Errorf("cell %s/%s has %d solutions, need %d", club, country, n, minSolutions)
			}
		}
	}
	return nil
}

func filter(values []string, keep func(string) bool) []string {
	var out []string
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func hasDuplicates(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

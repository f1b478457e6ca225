package tiers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/tikitakatoe/internal/model"
)

// DefaultMaxAttempts bounds grid sampling when the table does not set it
const DefaultMaxAttempts = 200

// FallbackGrid is a hand-picked grid used when sampling runs out of attempts
type FallbackGrid struct {
	Clubs     []string `yaml:"clubs"`
	Countries []string `yaml:"countries"`
}

// TierConfig is one tier as written in the YAML file. Extends names a tier
// whose pools are included before this tier's own entries.
type TierConfig struct {
	Name             model.Difficulty `yaml:"name"`
	Extends          model.Difficulty `yaml:"extends"`
	Points           int              `yaml:"points"`
	MinCellSolutions int              `yaml:"min_cell_solutions"`
	Clubs            []string         `yaml:"clubs"`
	Countries        []string         `yaml:"countries"`
	Fallback         *FallbackGrid    `yaml:"fallback"`
}

// File is the YAML document layout
type File struct {
	DefaultTier model.Difficulty `yaml:"default_tier"`
	MaxAttempts int              `yaml:"max_attempts"`
	Tiers       []TierConfig     `yaml:"tiers"`
}

// Tier is a resolved tier with cumulative pools
type Tier struct {
	Name             model.Difficulty
	Points           int
	MinCellSolutions int
	Clubs            []string
	Countries        []string
	Fallback         *FallbackGrid
}

// Table holds every resolved tier
type Table struct {
	defaultTier model.Difficulty
	maxAttempts int
	tiers       map[model.Difficulty]*Tier
	order       []model.Difficulty
}

// Load reads a tier table from a YAML file
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and resolves a tier table
func Parse(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tier table: %w", err)
	}
	if len(f.Tiers) == 0 {
		return nil, fmt.Errorf("tier table: no tiers defined")
	}

	t := &Table{
		defaultTier: f.DefaultTier,
		maxAttempts: f.MaxAttempts,
		tiers:       make(map[model.Difficulty]*Tier, len(f.Tiers)),
	}
	if t.maxAttempts <= 0 {
		t.maxAttempts = DefaultMaxAttempts
	}

	// Tiers may only extend tiers declared above them
	for _, tc := range f.Tiers {
		if tc.Name == "" {
			return nil, fmt.Errorf("tier table: tier without a name")
		}
		if _, dup := t.tiers[tc.Name]; dup {
			return nil, fmt.Errorf("tier table: duplicate tier %q", tc.Name)
		}
		if tc.Points <= 0 {
			return nil, fmt.Errorf("tier table: tier %q: points must be positive", tc.Name)
		}

		tier := &Tier{
			Name:             tc.Name,
			Points:           tc.Points,
			MinCellSolutions: tc.MinCellSolutions,
			Fallback:         tc.Fallback,
		}
		if tier.MinCellSolutions < 1 {
			tier.MinCellSolutions = 1
		}

		if tc.Extends != "" {
			parent, ok := t.tiers[tc.Extends]
			if !ok {
				return nil, fmt.Errorf("tier table: tier %q extends unknown tier %q", tc.Name, tc.Extends)
			}
			tier.Clubs = append(tier.Clubs, parent.Clubs...)
			tier.Countries = append(tier.Countries, parent.Countries...)
		}
		tier.Clubs = appendUnique(tier.Clubs, tc.Clubs...)
		tier.Countries = appendUnique(tier.Countries, tc.Countries...)

		if len(tier.Clubs) < model.GridSize || len(tier.Countries) < model.GridSize {
			return nil, fmt.Errorf("tier table: tier %q needs at least %d clubs and countries", tc.Name, model.GridSize)
		}

		t.tiers[tc.Name] = tier
		t.order = append(t.order, tc.Name)
	}

	if t.defaultTier == "" {
		t.defaultTier = t.order[0]
	}
	if _, ok := t.tiers[t.defaultTier]; !ok {
		return nil, fmt.Errorf("tier table: default tier %q is not defined", t.defaultTier)
	}
	return t, nil
}

// Tier returns the resolved tier for a difficulty
func (t *Table) Tier(d model.Difficulty) (*Tier, error) {
	tier, ok := t.tiers[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDifficulty, d)
	}
	return tier, nil
}

// Default returns the tier used when a request names none
func (t *Table) Default() model.Difficulty {
	return t.defaultTier
}

// MaxAttempts returns the sampling budget for one generation
func (t *Table) MaxAttempts() int {
	return t.maxAttempts
}

// Names returns tier names in declaration order
func (t *Table) Names() []model.Difficulty {
	return append([]model.Difficulty(nil), t.order...)
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

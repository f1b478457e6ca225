package corpus

import (
	"fmt"
	"sort"

	"github.com/mcoot/tikitakatoe/internal/model"
)

type pairKey struct {
	club    string
	country string
}

// Index answers club, country and club/country lookups over a loaded corpus.
// It is built once and never mutated, so it is safe for concurrent readers.
// Returned slices are shared and must not be modified.
type Index struct {
	players   []*model.PlayerRecord
	byID      map[model.PlayerID]*model.PlayerRecord
	byClub    map[string][]*model.PlayerRecord
	byCountry map[string][]*model.PlayerRecord
	byPair    map[pairKey][]*model.PlayerRecord
	clubs     []string
	countries []string
}

// NewIndex builds an index from player records. Solutions keep corpus order.
func NewIndex(records []model.PlayerRecord) (*Index, error) {
	idx := &Index{
		players:   make([]*model.PlayerRecord, 0, len(records)),
		byID:      make(map[model.PlayerID]*model.PlayerRecord, len(records)),
		byClub:    make(map[string][]*model.PlayerRecord),
		byCountry: make(map[string][]*model.PlayerRecord),
		byPair:    make(map[pairKey][]*model.PlayerRecord),
	}

	for i := range records {
		r := records[i]
		if r.ID == "" || r.CanonicalName == "" {
			return nil, fmt.Errorf("record %d: id and name are required", i)
		}
		if len(r.Clubs) == 0 || len(r.Countries) == 0 {
			return nil, fmt.Errorf("record %s: at least one club and country required", r.ID)
		}
		if _, dup := idx.byID[r.ID]; dup {
			return nil, fmt.Errorf("record %s: duplicate player id", r.ID)
		}

		r.Clubs = dedupe(r.Clubs)
		r.Countries = dedupe(r.Countries)
		r.MatchNames = MatchNames(r.CanonicalName, r.Aliases)
		rec := &r

		idx.players = append(idx.players, rec)
		idx.byID[rec.ID] = rec
		for _, club := range rec.Clubs {
			idx.byClub[club] = append(idx.byClub[club], rec)
		}
		for _, country := range rec.Countries {
			idx.byCountry[country] = append(idx.byCountry[country], rec)
			for _, club := range rec.Clubs {
				key := pairKey{club: club, country: country}
				idx.byPair[key] = append(idx.byPair[key], rec)
			}
		}
	}

	for club := range idx.byClub {
		idx.clubs = append(idx.clubs, club)
	}
	for country := range idx.byCountry {
		idx.countries = append(idx.countries, country)
	}
	sort.Strings(idx.clubs)
	sort.Strings(idx.countries)

	return idx, nil
}

// Player returns the record with the given id
func (i *Index) Player(id model.PlayerID) (*model.PlayerRecord, bool) {
	p, ok := i.byID[id]
	return p, ok
}

// PlayerCount returns the number of players indexed
func (i *Index) PlayerCount() int {
	return len(i.players)
}

// PlayersForClub returns every player who played for the club
func (i *Index) PlayersForClub(club string) []*model.PlayerRecord {
	return i.byClub[club]
}

// PlayersForCountry returns every player who represents the country
func (i *Index) PlayersForCountry(country string) []*model.PlayerRecord {
	return i.byCountry[country]
}

// Solutions returns the players valid for the cell, in corpus order
func (i *Index) Solutions(club, country string) []*model.PlayerRecord {
	return i.byPair[pairKey{club: club, country: country}]
}

// SolutionCount returns the number of players valid for the cell
func (i *Index) SolutionCount(club, country string) int {
	return len(i.byPair[pairKey{club: club, country: country}])
}

// HasClub reports whether any player played for the club
func (i *Index) HasClub(club string) bool {
	return len(i.byClub[club]) > 0
}

// HasCountry reports whether any player represents the country
func (i *Index) HasCountry(country string) bool {
	return len(i.byCountry[country]) > 0
}

// Clubs returns every indexed club, sorted
func (i *Index) Clubs() []string {
	return i.clubs
}

// Countries returns every indexed country, sorted
func (i *Index) Countries() []string {
	return i.countries
}

// MatchGuess looks for a solution of the cell whose accepted names include
// the normalised guess. Solutions are checked in corpus order.
func (i *Index) MatchGuess(club, country, guess string) (*model.PlayerRecord, bool) {
	normalized := Normalize(guess)
	if normalized == "" {
		return nil, false
	}
	for _, p := range i.Solutions(club, country) {
		for _, name := range p.MatchNames {
			if name == normalized {
				return p, true
			}
		}
	}
	return nil, false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/storage"
)

// Expected CSV columns, in order
var csvHeader = []string{"player_id", "name", "country", "clubs", "aliases"}

// listSeparator splits multi-valued CSV columns
const listSeparator = "|"

// Service owns the player corpus and its index.
// The index is swapped atomically on reload; readers never lock.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	index atomic.Pointer[Index]
}

// New creates a new corpus Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// LoadFromStorage loads the corpus previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	records, err := s.storage.GetCorpusRecords(ctx)
	if err != nil {
		return err
	}
	return s.LoadPlayers(records)
}

// LoadFromFile loads a players CSV from disk and saves it to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.LoadFromReader(ctx, file)
}

// LoadFromReader parses a players CSV and saves it to storage
func (s *Service) LoadFromReader(ctx context.Context, r io.Reader) error {
	records, err := ParseCSV(r)
	if err != nil {
		return err
	}

	// Save to storage for future use
	if err := s.storage.SaveCorpusRecords(ctx, records); err != nil {
		return err
	}

	return s.LoadPlayers(records)
}

// LoadPlayers builds the index directly from records (useful for testing)
func (s *Service) LoadPlayers(records []model.PlayerRecord) error {
	idx, err := NewIndex(records)
	if err != nil {
		return err
	}
	s.index.Store(idx)

	s.logger.Info("player corpus loaded",
		slog.Int("players", idx.PlayerCount()),
		slog.Int("clubs", len(idx.Clubs())),
		slog.Int("countries", len(idx.Countries())),
	)
	return nil
}

// Index returns the current index
func (s *Service) Index() (*Index, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, model.ErrCorpusNotLoaded
	}
	return idx, nil
}

// IsLoaded returns whether a corpus has been loaded
func (s *Service) IsLoaded() bool {
	return s.index.Load() != nil
}

// PlayerCount returns the number of players in the corpus
func (s *Service) PlayerCount() int {
	idx := s.index.Load()
	if idx == nil {
		return 0
	}
	return idx.PlayerCount()
}

// ParseCSV reads player records. Clubs, countries and aliases may hold
// several values separated by "|".
func ParseCSV(r io.Reader) ([]model.PlayerRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("players csv: empty input")
		}
		return nil, fmt.Errorf("players csv: %w", err)
	}
	for i, col := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("players csv: column %d is %q, want %q", i+1, header[i], col)
		}
	}

	var records []model.PlayerRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("players csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec := model.PlayerRecord{
			ID:            model.PlayerID(strings.TrimSpace(row[0])),
			CanonicalName: strings.TrimSpace(row[1]),
			Countries:     splitList(row[2]),
			Clubs:         splitList(row[3]),
			Aliases:       splitList(row[4]),
		}
		if rec.ID == "" || rec.CanonicalName == "" {
			return nil, fmt.Errorf("players csv: line %d: player_id and name are required", line)
		}
		if len(rec.Clubs) == 0 || len(rec.Countries) == 0 {
			return nil, fmt.Errorf("players csv: line %d: country and clubs are required", line)
		}
		records = append(records, rec)
	}
	return records, nil
}

func splitList(field string) []string {
	var out []string
	for _, part := range strings.Split(field, listSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Interface check
type ServiceInterface interface {
	Index() (*Index, error)
	IsLoaded() bool
	PlayerCount() int
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadFromReader(ctx context.Context, r io.Reader) error
	LoadPlayers(records []model.PlayerRecord) error
}

var _ ServiceInterface = (*Service)(nil)

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// The map lock only guards membership; each session has its own lock so
// updates to different sessions never wait on each other.
type Storage struct {
	mu sync.RWMutex

	sessions      map[model.GameID]*sessionEntry
	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	results       map[model.UserID][]*model.GameResult
	corpus        []model.PlayerRecord
}

type sessionEntry struct {
	mu      sync.Mutex
	session *model.Session // nil once deleted
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:      make(map[model.GameID]*sessionEntry),
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		results:       make(map[model.UserID][]*model.GameResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	entry, ok := s.sessions[session.ID]
	if !ok || entry == nil {
		s.sessions[session.ID] = &sessionEntry{session: session.Clone()}
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.session = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.GameID) (*model.Session, error) {
	entry := s.entry(id)
	if entry == nil {
		return nil, model.ErrGameNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.session == nil {
		return nil, model.ErrGameNotFound
	}
	return entry.session.Clone(), nil
}

func (s *Storage) UpdateSession(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (*model.Session, error) {
	entry := s.entry(id)
	if entry == nil {
		return nil, model.ErrGameNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.session == nil {
		return nil, model.ErrGameNotFound
	}

	working := entry.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	entry.session = working
	return working.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.session = nil
		entry.mu.Unlock()
	}
	return nil
}

func (s *Storage) EvictIdleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		if entry.session == nil || entry.session.UpdatedAt.Before(cutoff) {
			entry.session = nil
			delete(s.sessions, id)
			evicted++
		}
		entry.mu.Unlock()
	}
	return evicted, nil
}

func (s *Storage) entry(id model.GameID) *sessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Game result operations

func (s *Storage) AppendGameResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *result
	s.results[result.UserID] = append(s.results[result.UserID], &r)
	return nil
}

func (s *Storage) GetGameResults(ctx context.Context, userID model.UserID) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.results[userID]
	results := make([]*model.GameResult, len(stored))
	for i, r := range stored {
		c := *r
		results[i] = &c
	}
	return results, nil
}

// Corpus operations

func (s *Storage) GetCorpusRecords(ctx context.Context) ([]model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return nil, model.ErrCorpusNotLoaded
	}
	records := make([]model.PlayerRecord, len(s.corpus))
	copy(records, s.corpus)
	return records, nil
}

func (s *Storage) SaveCorpusRecords(ctx context.Context, records []model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = make([]model.PlayerRecord, len(records))
	copy(s.corpus, records)
	return nil
}

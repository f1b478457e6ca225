package storage

import (
	"context"
	"time"

	"github.com/mcoot/tikitakatoe/internal/model"
)

// UpdateFunc mutates a session in place. Returning an error aborts the update
// and nothing is written. It may be invoked more than once if the store
// retries after a conflicting write, so it must only touch the session passed in.
type UpdateFunc func(session *model.Session) error

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.GameID) (*model.Session, error)
	UpdateSession(ctx context.Context, id model.GameID, fn UpdateFunc) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.GameID) error
	EvictIdleSessions(ctx context.Context, cutoff time.Time) (int, error)

	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Game result operations
	AppendGameResult(ctx context.Context, result *model.GameResult) error
	GetGameResults(ctx context.Context, userID model.UserID) ([]*model.GameResult, error)

	// Corpus operations
	GetCorpusRecords(ctx context.Context) ([]model.PlayerRecord, error)
	SaveCorpusRecords(ctx context.Context, records []model.PlayerRecord) error
}

package model

import "time"

// PlayerID uniquely identifies a footballer in the corpus
type PlayerID string

// PlayerRecord is a footballer known to the corpus. Records are immutable once loaded.
type PlayerRecord struct {
	ID            PlayerID `json:"id"`
	CanonicalName string   `json:"name"`
	Clubs         []string `json:"clubs"`
	Countries     []string `json:"countries"`
	Aliases       []string `json:"aliases,omitempty"`

	// MatchNames holds the normalised forms a guess is compared against
	MatchNames []string `json:"-"`
}

// UserID uniquely identifies a registered account
type UserID string

// User is a registered account used to attribute game results
type User struct {
	ID           UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidGameID     = errors.New("invalid game id")
	ErrGameOver          = errors.New("game is already over")
	ErrCellNotInGrid     = errors.New("cell is not part of this grid")
	ErrCellAlreadyFilled = errors.New("cell is already filled")
	ErrEmptyGuess        = errors.New("player name is required")
	ErrHintLimitReached  = errors.New("maximum hints reached for this cell")
	ErrConcurrentUpdate  = errors.New("session was modified concurrently")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrGenerationFailed  = errors.New("could not generate a valid grid")

	// Corpus errors
	ErrCorpusNotLoaded = errors.New("player corpus not loaded")

	// Account errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrForbidden          = errors.New("user does not match authenticated session")
)

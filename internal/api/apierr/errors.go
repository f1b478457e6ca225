package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tikitakatoe/internal/model"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidGameID      = "INVALID_GAME_ID"
	CodeInvalidDifficulty  = "INVALID_DIFFICULTY"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeGameOver           = "GAME_OVER"
	CodeCellNotInGrid      = "CELL_NOT_IN_GRID"
	CodeCellAlreadyFilled  = "CELL_ALREADY_FILLED"
	CodeEmptyGuess         = "EMPTY_GUESS"
	CodeHintLimitReached   = "HINT_LIMIT_REACHED"
	CodeGenerationFailed   = "GENERATION_FAILED"
	CodeCorpusNotLoaded    = "CORPUS_NOT_LOADED"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a code and message
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	if he.status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message, Code: he.code})
}

// StatusFor returns the HTTP status an error maps to
func StatusFor(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Validation errors carry the underlying message so wrapped detail survives
	switch {
	case errors.Is(err, model.ErrInvalidGameID):
		return &httpError{http.StatusBadRequest, CodeInvalidGameID, err.Error()}
	case errors.Is(err, model.ErrInvalidDifficulty):
		return &httpError{http.StatusBadRequest, CodeInvalidDifficulty, err.Error()}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, CodeGameNotFound, "Game not found"}
	case errors.Is(err, model.ErrGameOver):
		return &httpError{http.StatusBadRequest, CodeGameOver, "Game is already over"}
	case errors.Is(err, model.ErrCellNotInGrid):
		return &httpError{http.StatusBadRequest, CodeCellNotInGrid, "Invalid club or country for this grid"}
	case errors.Is(err, model.ErrCellAlreadyFilled):
		return &httpError{http.StatusBadRequest, CodeCellAlreadyFilled, "Cell is already filled"}
	case errors.Is(err, model.ErrEmptyGuess):
		return &httpError{http.StatusBadRequest, CodeEmptyGuess, "Player name is required"}
	case errors.Is(err, model.ErrHintLimitReached):
		return &httpError{http.StatusBadRequest, CodeHintLimitReached, "Maximum hints reached for this cell"}
	case errors.Is(err, model.ErrGenerationFailed):
		return &httpError{http.StatusServiceUnavailable, CodeGenerationFailed, "Could not generate a valid grid, try again"}
	case errors.Is(err, model.ErrCorpusNotLoaded):
		return &httpError{http.StatusServiceUnavailable, CodeCorpusNotLoaded, "Player corpus not loaded"}
	case errors.Is(err, model.ErrConcurrentUpdate):
		return &httpError{http.StatusConflict, CodeConflict, "Game was modified concurrently, try again"}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password"}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session"}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusBadRequest, CodeUsernameExists, "Username already exists"}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrPasswordTooShort):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, err.Error()}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, CodeUserNotFound, "User not found"}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, CodeForbidden, "user_id does not match the authenticated user"}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, CodeUnauthorized, "Authentication required"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}

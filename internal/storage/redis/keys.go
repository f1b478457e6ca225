package redis

import (
	"fmt"

	"github.com/mcoot/tikitakatoe/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tikitaka"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.GameID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// resultsKey returns the Redis key for the LIST of a user's game results
func resultsKey(id model.UserID) string {
	return fmt.Sprintf("%s:results:%s", keyPrefix, id)
}

// corpusKey returns the Redis key for the serialised player corpus
func corpusKey() string {
	return fmt.Sprintf("%s:corpus", keyPrefix)
}

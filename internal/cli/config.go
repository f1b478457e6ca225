package cli

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFileName = "token"
	gameFileName  = "game"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	StateDir  string
	GameID    string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("TIKITAKA_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("TIKITAKA_TOKEN"),
		StateDir:  getEnvOrDefault("TIKITAKA_HOME", defaultStateDir()),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}
	token, err := c.readState(tokenFileName)
	if err != nil {
		return err
	}
	c.Token = token
	return nil
}

// SaveToken saves the token to the state directory
func (c *Config) SaveToken(token string) error {
	c.Token = token
	return c.writeState(tokenFileName, token)
}

// ClearToken forgets the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	err := os.Remove(filepath.Join(c.StateDir, tokenFileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// LoadGameID loads the current game id from file if not already set
func (c *Config) LoadGameID() error {
	if c.GameID != "" {
		return nil
	}
	id, err := c.readState(gameFileName)
	if err != nil {
		return err
	}
	c.GameID = id
	return nil
}

// SaveGameID remembers the current game
func (c *Config) SaveGameID(id string) error {
	c.GameID = id
	return c.writeState(gameFileName, id)
}

func (c *Config) readState(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(c.StateDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // No state file is fine
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Config) writeState(name, value string) error {
	if err := os.MkdirAll(c.StateDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.StateDir, name), []byte(value), 0600)
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tikitaka"
	}
	return filepath.Join(home, ".tikitaka")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

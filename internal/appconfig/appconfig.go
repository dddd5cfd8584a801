// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// APIKeyEnvVar names the environment variable holding the provider API key.
	// The key is read on demand and never stored in the Config struct.
	APIKeyEnvVar = "QUIZDECK_API_KEY"
	// defaultRequestTimeout is the default timeout for provider HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultBoardAttempts defines how many times board synthesis is retried
	// when the model returns an invalid payload.
	defaultBoardAttempts = 3
	// defaultCategoryCount is the number of general-knowledge categories on a
	// board, in addition to the single corpus-grounded one.
	defaultCategoryCount = 4
	// defaultTopK is the number of chunks retrieved for the grounded category.
	defaultTopK = 3
	// defaultMinChunkChars drops front-matter and other noise sections.
	defaultMinChunkChars = 100
	// defaultRelevanceCutoff rejects retrievals whose best similarity is weaker.
	defaultRelevanceCutoff = 0.2
	// defaultAnswerCutoff is the fuzzy-match ratio below which an answer is wrong.
	defaultAnswerCutoff = 0.8
)

// Config represents the top-level application configuration.
type Config struct {
	APIBase             string  `json:"apiBase"`
	ChatModel           string  `json:"chatModel"`
	EmbeddingModel      string  `json:"embeddingModel"`
	EmbeddingDimensions int     `json:"embeddingDimensions,omitempty"`
	Topic               string  `json:"topic"`
	Teams               int     `json:"teams,omitempty"`
	BoardCategories     int     `json:"boardCategories,omitempty"`
	BoardAttempts       int     `json:"boardAttempts,omitempty"`
	AnswerCutoff        float64 `json:"answerCutoff,omitempty"`
	RagMode             bool    `json:"ragMode"`
	RagCorpusPath       string  `json:"ragCorpusPath,omitempty"`
	RagIndexPath        string  `json:"ragIndexPath,omitempty"`
	RagTopK             int     `json:"ragTopK,omitempty"`
	RagMinChunkChars    int     `json:"ragMinChunkChars,omitempty"`
	RagRelevanceCutoff  float64 `json:"ragRelevanceCutoff,omitempty"`
	TimeoutSeconds      int     `json:"timeout,omitempty"`
	Debug               bool    `json:"debug"`
	LogFile             string  `json:"logFile,omitempty"`
	ConfigPath          string  `json:"-"`
}

// APIKey returns the provider API key from the environment. An empty string
// means the key is not configured; callers decide whether that is fatal.
func (c Config) APIKey() string {
	return strings.TrimSpace(os.Getenv(APIKeyEnvVar))
}

// RequestTimeout returns the timeout duration for provider requests, falling
// back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QuizTopic returns the configured quiz subject area.
func (c Config) QuizTopic() string {
	if t := strings.TrimSpace(c.Topic); t != "" {
		return t
	}
	return "astronomy"
}

// TeamCount returns the number of teams playing, clamped to a sane range.
func (c Config) TeamCount() int {
	if c.Teams <= 0 {
		return 1
	}
	if c.Teams > 4 {
		return 4
	}
	return c.Teams
}

// CategoryCount returns the number of general-knowledge categories per board.
func (c Config) CategoryCount() int {
	if c.BoardCategories <= 0 {
		return defaultCategoryCount
	}
	return c.BoardCategories
}

// SynthesisAttempts returns the retry budget for board synthesis.
func (c Config) SynthesisAttempts() int {
	if c.BoardAttempts <= 0 {
		return defaultBoardAttempts
	}
	return c.BoardAttempts
}

// AnswerMatchCutoff returns the fuzzy-match acceptance ratio for answers.
func (c Config) AnswerMatchCutoff() float64 {
	if c.AnswerCutoff <= 0 || c.AnswerCutoff > 1 {
		return defaultAnswerCutoff
	}
	return c.AnswerCutoff
}

// TopK returns how many chunks are retrieved for the grounded category.
func (c Config) TopK() int {
	if c.RagTopK <= 0 {
		return defaultTopK
	}
	return c.RagTopK
}

// MinChunkChars returns the minimum trimmed length a chunk must have to be indexed.
func (c Config) MinChunkChars() int {
	if c.RagMinChunkChars <= 0 {
		return defaultMinChunkChars
	}
	return c.RagMinChunkChars
}

// RelevanceCutoff returns the similarity floor below which retrieval results
// are treated as "no relevant content".
func (c Config) RelevanceCutoff() float64 {
	if c.RagRelevanceCutoff <= 0 {
		return defaultRelevanceCutoff
	}
	return c.RagRelevanceCutoff
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "quizdeck.log"
}

// Validate checks the parts of the configuration that every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ChatModel) == "" {
		return errors.New("chatModel is required")
	}
	if c.RagMode {
		if strings.TrimSpace(c.RagCorpusPath) == "" {
			return errors.New("ragCorpusPath is required when ragMode is enabled")
		}
		if strings.TrimSpace(c.EmbeddingModel) == "" {
			return errors.New("embeddingModel is required when ragMode is enabled")
		}
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

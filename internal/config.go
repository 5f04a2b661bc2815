package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host     string `env:"HOST,required=true"`
	Port     int    `env:"PORT,required=true"`
	LogLevel string `env:"LOG_LEVEL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	VerifyTimeout     time.Duration `env:"VERIFY_TIMEOUT,required=true"`

	HistoryLimit         int `env:"HISTORY_LIMIT,required=true"`
	ConnectionBufferSize int `env:"CONNECTION_BUFFER_SIZE,required=true"`
	EventBufferSize      int `env:"EVENT_BUFFER_SIZE,required=true"`
	MaxContentLength     int `env:"MAX_CONTENT_LENGTH,required=true"`

	SinkTimeout    time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval time.Duration `env:"METRIC_INTERVAL,required=true"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,required=true"`
}

// Validate rejects combinations that would break delivery guarantees. A
// connection buffer smaller than the history limit could never hold a full
// replay, so every join would be cut short.
func (c Config) Validate() error {
	if c.HistoryLimit < 1 {
		return fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", c.HistoryLimit)
	}
	if c.ConnectionBufferSize < c.HistoryLimit {
		return fmt.Errorf(
			"CONNECTION_BUFFER_SIZE (%d) must be at least HISTORY_LIMIT (%d)",
			c.ConnectionBufferSize, c.HistoryLimit,
		)
	}
	if c.EventBufferSize < 1 {
		return fmt.Errorf("EVENT_BUFFER_SIZE must be at least 1, got %d", c.EventBufferSize)
	}
	if c.MaxContentLength < 1 {
		return fmt.Errorf("MAX_CONTENT_LENGTH must be at least 1, got %d", c.MaxContentLength)
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

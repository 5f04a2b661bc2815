package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:                 "127.0.0.1",
		Port:                 8080,
		LogLevel:             "INFO",
		BadgerFilepath:       "/tmp/badger",
		BlugeFilepath:        "/tmp/bluge",
		JWTSecret:            "secret",
		AuthTokenDuration:    time.Hour,
		VerifyTimeout:        time.Second,
		HistoryLimit:         20,
		ConnectionBufferSize: 64,
		EventBufferSize:      128,
		MaxContentLength:     4096,
		SinkTimeout:          time.Second,
		MetricInterval:       10 * time.Second,
		CharReplacement:      "*",
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_RejectsBufferSmallerThanHistory(t *testing.T) {
	config := validConfig()
	config.ConnectionBufferSize = 10

	err := config.Validate()

	require.Error(t, err)
	require.Contains(t, err.Error(), "CONNECTION_BUFFER_SIZE")
}

func TestConfig_Validate_RejectsZeroHistory(t *testing.T) {
	config := validConfig()
	config.HistoryLimit = 0

	require.Error(t, config.Validate())
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)

	r, err := CharacterRune("*")
	req.NoError(err)
	req.Equal('*', r)

	_, err = CharacterRune("")
	req.Error(err)

	_, err = CharacterRune("**")
	req.Error(err)
}

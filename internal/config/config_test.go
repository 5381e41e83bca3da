package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	req := require.New(t)
	cfg := Load()

	req.Equal("development", cfg.Env)
	req.False(cfg.IsProduction())
	req.NotEmpty(cfg.Port)
	req.NotEmpty(cfg.DatabaseURL)
	req.Positive(cfg.SendBufferSize)
	req.Positive(cfg.ReadTimeoutSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	req := require.New(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("WS_SEND_BUFFER", "64")
	t.Setenv("WS_READ_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	req.True(cfg.IsProduction())
	req.Equal("9000", cfg.Port)
	req.Equal(64, cfg.SendBufferSize)
	req.Equal(60, cfg.ReadTimeoutSeconds, "bad int falls back to default")
}

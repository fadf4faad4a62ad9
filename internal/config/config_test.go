package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresCheckID(t *testing.T) {
	viper.Reset()

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "check ID is required")
}

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("HEALTHCHECKS_CHECK_ID", "7d2f8f70-93b1-4a0a-9a51-3f5d0f4e8f21")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "https://hc-ping.com", cfg.Healthchecks.BaseURL)
	require.Equal(t, "7d2f8f70-93b1-4a0a-9a51-3f5d0f4e8f21", cfg.Healthchecks.CheckID)
	require.Equal(t, 10*time.Second, cfg.GetPingTimeout())
}

func TestLoad_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("HEALTHCHECKS_CHECK_ID", "7d2f8f70-93b1-4a0a-9a51-3f5d0f4e8f21")
	t.Setenv("HEALTHCHECKS_BASE_URL", "https://hc.example.com")
	t.Setenv("HEALTHCHECKS_PING_TIMEOUT", "3")
	t.Setenv("ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://hc.example.com", cfg.Healthchecks.BaseURL)
	require.Equal(t, 3*time.Second, cfg.GetPingTimeout())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("USER_MAPPING_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, "http://localhost:3000/webhook", cfg.WebhookURL)
	require.Empty(t, cfg.FavroWebhookSecret)
	require.Empty(t, cfg.SlackBotToken)
	require.Empty(t, cfg.UserMapping)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "favrelay", cfg.OTelServiceName)
	require.False(t, cfg.OTelEnabled)
}

func TestLoadWebhookURLFollowsPort(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WEBHOOK_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/webhook", cfg.WebhookURL)
}

func TestLoadExplicitWebhookURLWins(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://relay.example.com/webhook")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://relay.example.com/webhook", cfg.WebhookURL)
}

func TestLoadNormalizesRateBudgets(t *testing.T) {
	t.Setenv("SLACK_NOTIFY_GLOBAL_PER_MINUTE", "-3")
	t.Setenv("SLACK_NOTIFY_USER_PER_MINUTE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 60, cfg.NotifyGlobalPerMinute)
	require.Equal(t, 10, cfg.NotifyUserPerMinute)
}

func TestLoadUserMappingFile(t *testing.T) {
	t.Run("valid mapping file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"Adam Svensson":"U91238WEOBY"}`), 0644))
		t.Setenv("USER_MAPPING_FILE", path)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, map[string]string{"Adam Svensson": "U91238WEOBY"}, cfg.UserMapping)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Setenv("USER_MAPPING_FILE", filepath.Join(t.TempDir(), "absent.json"))

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.json")
		require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))
		t.Setenv("USER_MAPPING_FILE", path)

		_, err := Load()
		require.Error(t, err)
	})
}

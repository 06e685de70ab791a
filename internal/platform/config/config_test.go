package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("development defaults", func(t *testing.T) {
		cfg := FromEnv()
		require.Equal(t, ":8080", cfg.Addr)
		require.Equal(t, "A QUIEN CORRESPONDA", cfg.DefaultAddressee)
		require.Equal(t, 30, cfg.VerifyRateLimit)
		require.Equal(t, time.Minute, cfg.VerifyRateWindow)
		require.Equal(t, 8, cfg.BulkConcurrency)
		require.Empty(t, cfg.KafkaBrokers)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("FISMAPP_ADDR", ":9090")
		t.Setenv("FISMAPP_VERIFY_RATE_LIMIT", "5")
		t.Setenv("FISMAPP_VERIFY_RATE_WINDOW", "30s")
		t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

		cfg := FromEnv()
		require.Equal(t, ":9090", cfg.Addr)
		require.Equal(t, 5, cfg.VerifyRateLimit)
		require.Equal(t, 30*time.Second, cfg.VerifyRateWindow)
		require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	})
}

func TestLoadPeriods(t *testing.T) {
	t.Run("empty path falls back to the built-in catalog", func(t *testing.T) {
		periods, err := LoadPeriods("")
		require.NoError(t, err)
		require.Contains(t, periods, "202525")
		require.Contains(t, periods, "202535")
		require.Contains(t, periods, "202030")
	})

	t.Run("reads periods from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "periods.yaml")
		require.NoError(t, os.WriteFile(path, []byte("periods:\n  - \"202525\"\n  - \"202535\"\n"), 0o600))

		periods, err := LoadPeriods(path)
		require.NoError(t, err)
		require.Equal(t, []string{"202525", "202535"}, periods)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadPeriods(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("empty catalog is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "periods.yaml")
		require.NoError(t, os.WriteFile(path, []byte("periods: []\n"), 0o600))
		_, err := LoadPeriods(path)
		require.Error(t, err)
	})
}

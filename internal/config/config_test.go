package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomo/internal/timer"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\ntimer:\n  reconfigure: defer\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Notifications.Bell)
	assert.True(t, cfg.Notifications.Desktop)

	policy, err := cfg.ReconfigurePolicy()
	require.NoError(t, err)
	assert.Equal(t, timer.ReconfigureDefer, policy)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	cfg, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timer:\n  reconfigure: later\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Database.Path = "/tmp/pomo.db"
	cfg.Notifications.Desktop = false

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	err := Save(filepath.Join(t.TempDir(), "config.yaml"), cfg)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestReconfigurePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want timer.ReconfigurePolicy
	}{
		{"", timer.ReconfigureReset},
		{"reset", timer.ReconfigureReset},
		{"DEFER", timer.ReconfigureDefer},
	}
	for _, tt := range tests {
		got, err := Config{Timer: Timer{Reconfigure: tt.in}}.ReconfigurePolicy()
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

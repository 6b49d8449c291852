package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/26JATIN/scholardesk-sub002/internal/portal"
)

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCHOLARDESK_CONFIG_DIR", dir)

	assert.Equal(t, dir, ConfigDir())
	assert.Equal(t, filepath.Join(dir, "cache.scholardesk"), StorePath())
	assert.Equal(t, filepath.Join(dir, "settings.yaml"), SettingsPath())
	assert.Equal(t, filepath.Join(dir, "scholardesk.log"), LogPath())

	t.Setenv("SCHOLARDESK_LOG", "/tmp/other.log")
	assert.Equal(t, "/tmp/other.log", LogPath())
}

func TestInitConfigDirWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")
	t.Setenv("SCHOLARDESK_CONFIG_DIR", dir)

	require.NoError(t, InitConfigDir())

	data, err := os.ReadFile(SettingsPath())
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// A second init must not clobber user edits.
	require.NoError(t, os.WriteFile(SettingsPath(), []byte("logging: debug\n"), 0600))
	require.NoError(t, InitConfigDir())

	data, err = os.ReadFile(SettingsPath())
	require.NoError(t, err)
	assert.Equal(t, "logging: debug\n", string(data))
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCHOLARDESK_CONFIG_DIR", dir)

	t.Run("missing file yields defaults", func(t *testing.T) {
		s, err := LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "off", s.Logging)
	})

	t.Run("parses full file", func(t *testing.T) {
		content := `
logging: info
busy_timeout_ms: 5000
portal:
  base_url: https://portal.example.edu
  tenant: campus-a
  user_id: u-1
  session: "2025-26"
validity:
  attendance: 30m
  personal_info: never
`
		require.NoError(t, os.WriteFile(SettingsPath(), []byte(content), 0600))

		s, err := LoadSettings()
		require.NoError(t, err)
		assert.Equal(t, "info", s.Logging)
		assert.Equal(t, 5000, s.BusyTimeoutMS)
		assert.Equal(t, "campus-a", s.Portal.Tenant)
		assert.Equal(t, "30m", s.Validity.Attendance)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		require.NoError(t, os.WriteFile(SettingsPath(), []byte("logging: [unclosed"), 0600))
		_, err := LoadSettings()
		assert.Error(t, err)
	})
}

func TestValidities(t *testing.T) {
	t.Parallel()

	t.Run("empty overrides keep defaults", func(t *testing.T) {
		t.Parallel()
		s := &Settings{}
		v, err := s.Validities()
		require.NoError(t, err)
		assert.Equal(t, portal.DefaultValidities(), v)
	})

	t.Run("overrides apply", func(t *testing.T) {
		t.Parallel()
		s := &Settings{Validity: ValiditySettings{
			Attendance:        "30m",
			Profile:           "never",
			FeedCheckInterval: "1m",
		}}
		v, err := s.Validities()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, v.Attendance)
		assert.Equal(t, time.Duration(0), v.Profile)
		assert.Equal(t, time.Minute, v.FeedCheckInterval)
		// Untouched fields keep their stock values.
		assert.Equal(t, 12*time.Hour, v.Timetable)
	})

	t.Run("malformed duration is an error", func(t *testing.T) {
		t.Parallel()
		s := &Settings{Validity: ValiditySettings{Attendance: "soon"}}
		_, err := s.Validities()
		assert.Error(t, err)
	})

	t.Run("negative duration is an error", func(t *testing.T) {
		t.Parallel()
		s := &Settings{Validity: ValiditySettings{Attendance: "-1h"}}
		_, err := s.Validities()
		assert.Error(t, err)
	})
}

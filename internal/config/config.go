package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/26JATIN/scholardesk-sub002/internal/artifacts"
	"github.com/26JATIN/scholardesk-sub002/internal/portal"
)

// getConfigDir returns the config directory path.
// Uses SCHOLARDESK_CONFIG_DIR env var if set, otherwise defaults to
// ~/.scholardesk. Computed dynamically to support test isolation.
func getConfigDir() string {
	if dir := os.Getenv("SCHOLARDESK_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scholardesk")
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	return getConfigDir()
}

// StorePath returns the preference-store file path
func StorePath() string {
	return filepath.Join(getConfigDir(), "cache.scholardesk")
}

// LogPath returns the log file path.
// Uses SCHOLARDESK_LOG env var if set, otherwise defaults to
// config_dir/scholardesk.log.
func LogPath() string {
	if envPath := os.Getenv("SCHOLARDESK_LOG"); envPath != "" {
		return envPath
	}
	return filepath.Join(getConfigDir(), "scholardesk.log")
}

// SettingsPath returns the global settings file path
func SettingsPath() string {
	return filepath.Join(getConfigDir(), "settings.yaml")
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(getConfigDir(), 0700)
}

// InitConfigDir initializes the config directory with default files
func InitConfigDir() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	settingsPath := SettingsPath()
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, artifacts.GlobalSettings, 0600); err != nil {
			return fmt.Errorf("failed to create default settings: %w", err)
		}
	}
	return nil
}

// PortalSettings names the backend and the default identity CLI commands use.
type PortalSettings struct {
	BaseURL string `yaml:"base_url"`
	Tenant  string `yaml:"tenant"`
	UserID  string `yaml:"user_id"`
	Session string `yaml:"session"`
}

// ValiditySettings overrides per-domain freshness windows. Values are Go
// duration strings; "never" disables expiry; empty keeps the default.
type ValiditySettings struct {
	Attendance        string `yaml:"attendance"`
	Timetable         string `yaml:"timetable"`
	Subjects          string `yaml:"subjects"`
	Sessions          string `yaml:"sessions"`
	Profile           string `yaml:"profile"`
	PersonalInfo      string `yaml:"personal_info"`
	ReportCard        string `yaml:"report_card"`
	FeeReceipts       string `yaml:"fee_receipts"`
	FeedCheckInterval string `yaml:"feed_check_interval"`
}

// Settings represents the global settings file.
type Settings struct {
	Logging       string           `yaml:"logging"` // off, warn, info, debug, trace
	BusyTimeoutMS int              `yaml:"busy_timeout_ms"`
	Portal        PortalSettings   `yaml:"portal"`
	Validity      ValiditySettings `yaml:"validity"`
}

// LoadSettings reads the settings file. A missing file yields defaults.
func LoadSettings() (*Settings, error) {
	s := &Settings{Logging: "off"}
	data, err := os.ReadFile(SettingsPath())
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SettingsPath(), err)
	}
	return s, nil
}

// Validities merges the settings overrides onto the stock windows.
// Malformed durations are reported, not ignored: a silently-dropped override
// would change freshness behavior without any signal.
func (s *Settings) Validities() (portal.Validities, error) {
	v := portal.DefaultValidities()
	for _, f := range []struct {
		raw string
		dst *time.Duration
	}{
		{s.Validity.Attendance, &v.Attendance},
		{s.Validity.Timetable, &v.Timetable},
		{s.Validity.Subjects, &v.Subjects},
		{s.Validity.Sessions, &v.Sessions},
		{s.Validity.Profile, &v.Profile},
		{s.Validity.PersonalInfo, &v.PersonalInfo},
		{s.Validity.ReportCard, &v.ReportCard},
		{s.Validity.FeeReceipts, &v.FeeReceipts},
		{s.Validity.FeedCheckInterval, &v.FeedCheckInterval},
	} {
		if f.raw == "" {
			continue
		}
		if strings.EqualFold(f.raw, "never") {
			*f.dst = 0
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return v, fmt.Errorf("invalid validity %q: %w", f.raw, err)
		}
		if d < 0 {
			return v, fmt.Errorf("invalid validity %q: negative", f.raw)
		}
		*f.dst = d
	}
	return v, nil
}

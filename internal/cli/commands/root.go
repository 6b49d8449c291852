// Copyright 2025 ScholarDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"io"
	"strings"

	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/26JATIN/scholardesk-sub002/internal/config"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Identity flags shared by cache commands. Empty values fall back to the
// settings file.
var (
	flagTenant  string
	flagUser    string
	flagSession string
	flagLogging string
)

// SetVersion sets the version info for --version flag
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}

var rootCmd = &cobra.Command{
	Use:   "scholardesk",
	Short: "Offline cache for the ScholarDesk school portal",
	Long: `Offline cache for the ScholarDesk school portal.

Maintains a local store of announcements, attendance, timetable, subjects,
sessions, profile, report-card and fee-receipt data so screens render
instantly while background refreshes run.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if err := config.InitConfigDir(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		store.SetConfigBusyTimeout(settings.BusyTimeoutMS)

		level := flagLogging
		if level == "" {
			level = settings.Logging
		}
		applyLogLevel(level)
		return nil
	},
}

// applyLogLevel maps the settings/flag level onto logrus. Default is off:
// CLI output goes to stdout, diagnostics only appear when asked for.
func applyLogLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetOutput(io.Discard)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("scholardesk version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flagTenant, "tenant", "", "school abbreviation (defaults to settings)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "student id (defaults to settings)")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "academic session id (defaults to settings)")
	rootCmd.PersistentFlags().StringVar(&flagLogging, "logging", "", "log level: off, warn, info, debug, trace")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

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
	"os"

	"github.com/spf13/cobra"

	"github.com/26JATIN/scholardesk-sub002/internal/config"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config directory and cache store",
	Long: `Initialize the ScholarDesk config directory and create the cache store.

Creates ~/.scholardesk (or SCHOLARDESK_CONFIG_DIR) with a default
settings.yaml and an empty cache store. Safe to re-run.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Config dir + settings are created by the root PersistentPreRunE;
	// report what exists and create the store.
	fmt.Printf("Config directory: %s\n", config.ConfigDir())
	fmt.Printf("Settings file:    %s\n", config.SettingsPath())

	storePath := config.StorePath()
	if _, err := os.Stat(storePath); err == nil {
		fmt.Printf("Cache store:      %s (already exists)\n", storePath)
		return nil
	}

	st, err := store.Create(storePath)
	if err != nil {
		return fmt.Errorf("failed to create cache store: %w", err)
	}
	defer st.Close()

	id, err := st.ID(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Cache store:      %s (created, id %s)\n", storePath, id)
	return nil
}

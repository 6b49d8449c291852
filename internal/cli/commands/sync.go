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
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/26JATIN/scholardesk-sub002/internal/api"
	"github.com/26JATIN/scholardesk-sub002/internal/config"
	"github.com/26JATIN/scholardesk-sub002/internal/portal"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new announcements and merge them into the feed cache",
	Long: `Fetch new announcements from the configured portal and merge them into
the feed cache. Rate-limited to one check per interval unless --force.

Requires portal.base_url in settings.yaml.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "skip the new-item check throttle")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if settings.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url is not configured in %s", config.SettingsPath())
	}

	st, svcs, err := openServices()
	if err != nil {
		return err
	}
	defer st.Close()

	if !syncForce {
		due, err := svcs.Feed.ShouldCheckForNewItems(ctx)
		if err != nil {
			return err
		}
		if !due {
			fmt.Println("Checked recently; skipping (use --force to override)")
			return nil
		}
	}

	id, session, err := resolveIdentity(settings)
	if err != nil {
		return err
	}
	client := api.NewClient(settings.Portal.BaseURL)
	body, err := client.GetJSON(ctx, "announcements", url.Values{
		"tenant":  {id.Tenant},
		"user":    {id.UserID},
		"session": {session},
	})
	if err != nil {
		return err
	}

	items, nextPage, hasMore, err := parseFeedPage(body)
	if err != nil {
		return err
	}
	merged, err := svcs.Feed.MergeNewItems(ctx, items, nextPage, hasMore)
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %d items, %d cached after merge\n", len(items), len(merged))
	return nil
}

// parseFeedPage maps a decoded portal response onto announcements.
// Items with an unparseable timestamp get 0 and sort last.
func parseFeedPage(body map[string]any) ([]portal.Announcement, string, bool, error) {
	rawItems, _ := body["items"].([]any)
	items := make([]portal.Announcement, 0, len(rawItems))
	for _, raw := range rawItems {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, "", false, fmt.Errorf("malformed feed item: %T", raw)
		}
		items = append(items, portal.Announcement{
			ID:        str(obj["id"]),
			Title:     str(obj["title"]),
			Body:      str(obj["body"]),
			Author:    str(obj["author"]),
			Category:  str(obj["category"]),
			Timestamp: num(obj["timestamp"]),
		})
	}
	nextPage := str(body["next_page"])
	hasMore, _ := body["has_more"].(bool)
	return items, nextPage, hasMore, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		return 0
	}
	return i
}

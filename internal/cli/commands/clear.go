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
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/26JATIN/scholardesk-sub002/internal/portal"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [domain]",
	Short: "Clear cached data for one domain, or everything with --all",
	Long: `Clear cached data for one domain, or every domain with --all.

Domains: ` + strings.Join(portal.Domains, ", "),
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear every cache domain for this user")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !clearAll && len(args) == 0 {
		return fmt.Errorf("specify a domain or --all")
	}

	st, svcs, err := openServices()
	if err != nil {
		return err
	}
	defer st.Close()

	if clearAll {
		if err := svcs.ClearAll(ctx); err != nil {
			return err
		}
		fmt.Println("Cleared all cached domains")
		return nil
	}

	domain := strings.ToLower(args[0])
	clearFn, ok := map[string]func(context.Context) error{
		portal.DomainFeed:        svcs.Feed.ClearCache,
		portal.DomainAttendance:  svcs.Attendance.ClearCache,
		portal.DomainTimetable:   svcs.Timetable.ClearCache,
		portal.DomainSubjects:    svcs.Subjects.ClearCache,
		portal.DomainSessions:    svcs.Sessions.ClearCache,
		portal.DomainProfile:     svcs.Profile.ClearCache,
		portal.DomainPersonal:    svcs.Profile.ClearCache,
		portal.DomainReportCard:  svcs.ReportCard.ClearCache,
		portal.DomainFeeReceipts: svcs.FeeReceipts.ClearCache,
	}[domain]
	if !ok {
		return fmt.Errorf("unknown domain %q (want one of: %s)", domain, strings.Join(portal.Domains, ", "))
	}
	if err := clearFn(ctx); err != nil {
		return err
	}
	fmt.Printf("Cleared %s cache\n", domain)
	return nil
}

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
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/26JATIN/scholardesk-sub002/internal/portal"
)

var showCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Dump the cached payload of one domain",
	Long: `Dump the cached payload of one domain as JSON.

Domains: ` + strings.Join(portal.Domains, ", "),
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	domain := strings.ToLower(args[0])

	st, svcs, err := openServices()
	if err != nil {
		return err
	}
	defer st.Close()

	var payload any
	var fresh *bool

	switch domain {
	case portal.DomainFeed:
		res, err := svcs.Feed.GetCachedFeed(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload = res
		}
	case portal.DomainAttendance:
		res, err := svcs.Attendance.GetCachedAttendance(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainTimetable:
		res, err := svcs.Timetable.GetCachedTimetable(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainSubjects:
		res, err := svcs.Subjects.GetCachedSubjects(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainSessions:
		res, err := svcs.Sessions.GetCachedSessions(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainProfile:
		res, err := svcs.Profile.GetCachedProfile(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainPersonal:
		res, err := svcs.Profile.GetCachedPersonalInfo(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainReportCard:
		res, err := svcs.ReportCard.GetCachedReportCard(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	case portal.DomainFeeReceipts:
		res, err := svcs.FeeReceipts.GetCachedFeeReceipts(ctx)
		if err != nil {
			return err
		}
		if res != nil {
			payload, fresh = res.Payload, &res.Fresh
		}
	default:
		return fmt.Errorf("unknown domain %q (want one of: %s)", domain, strings.Join(portal.Domains, ", "))
	}

	if payload == nil {
		fmt.Println(color.YellowString("nothing cached for %s", domain))
		return nil
	}
	if fresh != nil && !*fresh {
		fmt.Println(color.YellowString("// stale"))
	}
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

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

package portal

import (
	"time"

	"github.com/26JATIN/scholardesk-sub002/internal/cache"
)

// Cache domain names. Each service exclusively owns the keys under its
// domain; no two services share a namespace.
const (
	DomainFeed        = "feed"
	DomainAttendance  = "attendance"
	DomainTimetable   = "timetable"
	DomainSubjects    = "subjects"
	DomainSessions    = "sessions"
	DomainProfile     = "profile"
	DomainPersonal    = "personal"
	DomainReportCard  = "reportcard"
	DomainFeeReceipts = "fees"
	domainMeta        = "meta" // build fingerprint, not a cache domain
)

// Domains lists every cache domain, in display order.
var Domains = []string{
	DomainFeed, DomainAttendance, DomainTimetable, DomainSubjects,
	DomainSessions, DomainProfile, DomainPersonal, DomainReportCard,
	DomainFeeReceipts,
}

// Validities holds the per-domain freshness windows. Zero means never
// expires. Fee receipts share the 24h bucket of the other term-shaped
// documents.
type Validities struct {
	Attendance   time.Duration
	Timetable    time.Duration
	Subjects     time.Duration
	Sessions     time.Duration
	Profile      time.Duration
	PersonalInfo time.Duration
	ReportCard   time.Duration
	FeeReceipts  time.Duration

	// FeedCheckInterval throttles background head-of-feed refreshes.
	FeedCheckInterval time.Duration
}

// DefaultValidities returns the stock freshness windows.
func DefaultValidities() Validities {
	return Validities{
		Attendance:        time.Hour,
		Timetable:         12 * time.Hour,
		Subjects:          24 * time.Hour,
		Sessions:          24 * time.Hour,
		Profile:           6 * time.Hour,
		PersonalInfo:      cache.ValidityNever,
		ReportCard:        24 * time.Hour,
		FeeReceipts:       24 * time.Hour,
		FeedCheckInterval: cache.DefaultNewCheckInterval,
	}
}

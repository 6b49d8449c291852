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
	"github.com/26JATIN/scholardesk-sub002/internal/cache"
)

// Identity names the student a cache partition belongs to.
type Identity struct {
	Tenant string // school abbreviation
	UserID string // student id
}

// Announcement is one feed item: a notice published by the school.
// Timestamp is the publish time in Unix millis; 0 when the portal sent an
// unparseable date, which sorts the item last.
type Announcement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"category,omitempty"`
	Timestamp   int64    `json:"timestamp"`
	Attachments []string `json:"attachments,omitempty"`
}

// FeedKey implements cache.Keyed: announcements are identified by
// (id, timestamp) so an edited repost is a distinct item.
func (a Announcement) FeedKey() cache.FeedKey {
	return cache.FeedKey{ID: a.ID, Timestamp: a.Timestamp}
}

// MonthAttendance is one month's attendance roll-up.
type MonthAttendance struct {
	Month   string `json:"month"` // "2026-07"
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Leaves  int    `json:"leaves"`
}

// AttendanceSummary is the attendance payload for one session.
type AttendanceSummary struct {
	TotalDays  int               `json:"total_days"`
	Present    int               `json:"present"`
	Absent     int               `json:"absent"`
	Leaves     int               `json:"leaves"`
	Percentage float64           `json:"percentage"`
	Months     []MonthAttendance `json:"months,omitempty"`
}

// Period is one timetable slot.
type Period struct {
	Order   int    `json:"order"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher,omitempty"`
	Room    string `json:"room,omitempty"`
	Start   string `json:"start"` // "09:15"
	End     string `json:"end"`
}

// TimetableDay is one weekday's period list.
type TimetableDay struct {
	Day     string   `json:"day"` // "monday"
	Periods []Period `json:"periods"`
}

// Timetable is the weekly timetable payload.
type Timetable struct {
	EffectiveFrom string         `json:"effective_from,omitempty"`
	Days          []TimetableDay `json:"days"`
}

// Subject is one enrolled subject.
type Subject struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Teacher string `json:"teacher,omitempty"`
}

// Session is one academic session the student was enrolled in.
type Session struct {
	ID      string `json:"id"`
	Name    string `json:"name"` // "2025-26"
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Current bool   `json:"current"`
}

// Profile is the basic student profile shown on the home screen.
type Profile struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Section  string `json:"section,omitempty"`
	RollNo   string `json:"roll_no,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// PersonalInfo is the detailed profile record. Written once per enrolment,
// it never goes stale.
type PersonalInfo struct {
	AdmissionNo string `json:"admission_no"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	BloodGroup  string `json:"blood_group,omitempty"`
	FatherName  string `json:"father_name,omitempty"`
	MotherName  string `json:"mother_name,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// SubjectMarks is one subject row of a term report.
type SubjectMarks struct {
	Subject  string  `json:"subject"`
	MaxMarks float64 `json:"max_marks"`
	Obtained float64 `json:"obtained"`
	Grade    string  `json:"grade,omitempty"`
}

// TermReport is one term's result.
type TermReport struct {
	Term       string         `json:"term"`
	Subjects   []SubjectMarks `json:"subjects"`
	Percentage float64        `json:"percentage"`
	Rank       string         `json:"rank,omitempty"`
}

// ReportCard is the report-card payload for one session.
type ReportCard struct {
	Terms []TermReport `json:"terms"`
}

// FeeLine is one particulars row of a receipt.
type FeeLine struct {
	Head   string  `json:"head"`
	Amount float64 `json:"amount"`
}

// FeeReceipt is one paid fee receipt.
type FeeReceipt struct {
	ReceiptNo   string    `json:"receipt_no"`
	Date        string    `json:"date"`
	Amount      float64   `json:"amount"`
	Mode        string    `json:"mode,omitempty"`
	Particulars []FeeLine `json:"particulars,omitempty"`
}

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

package cache

import (
	"fmt"
	"time"
)

// ValidityNever marks a record as never expiring once written
// (detailed profile data). Same convention as a zero TTL elsewhere.
const ValidityNever time.Duration = 0

// IsFresh reports whether a record cached at cachedAtMillis is still inside
// its validity window at nowMillis. A zero validity never expires.
func IsFresh(cachedAtMillis, nowMillis int64, validity time.Duration) bool {
	if validity == ValidityNever {
		return true
	}
	return nowMillis-cachedAtMillis < validity.Milliseconds()
}

// AgeString renders the age of a record in the coarse buckets the screens
// display ("just now", "5m ago", "3h ago", "2d ago"). Pure function of the
// two timestamps.
func AgeString(cachedAtMillis, nowMillis int64) string {
	age := time.Duration(nowMillis-cachedAtMillis) * time.Millisecond
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

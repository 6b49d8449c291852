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

// Package cache implements the generic offline-cache engine the domain
// services are built on.
//
// Design principles:
// 1. Scope isolation - every (domain, tenant, user, session) tuple owns a
//    disjoint key set in the shared preference store
// 2. Cache failures never propagate - corrupt or torn records read as misses
// 3. Policy lives here, payload shape lives in the domain services
//
// Provides:
// - Scope: key namespacing over the preference store
// - TimedCache: single-record cache with a fixed validity window
// - FeedCache: reverse-chronological paginated cache with merge/dedup and a
//   terminal all-history-loaded state
package cache

import "os"

// Disabled controls whether all caching mechanisms are disabled.
// Set via SCHOLARDESK_CACHE=0 environment variable.
// When true, Get always reports a miss and Put is a no-op.
//
// This is useful for debugging to verify screens behave correctly on a cold
// store, and to isolate cache-related bugs.
var Disabled = os.Getenv("SCHOLARDESK_CACHE") == "0"

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
	"strings"

	"github.com/26JATIN/scholardesk-sub002/internal/common"
)

// keyPrefix namespaces every cache key in the shared preference store so
// cache keys can never collide with other store users (schema info, settings).
const keyPrefix = "sdc"

// keySep joins key components. Identifier components must not contain it;
// Validate rejects them at the boundary.
const keySep = "|"

// Scope identifies one logical cache partition: the (domain, tenant, user,
// session) tuple. SessionID is empty for session-independent domains
// (profile, sessions list).
type Scope struct {
	Domain    string
	Tenant    string
	UserID    string
	SessionID string
}

// Validate fails fast on malformed scopes: these indicate programmer error,
// not runtime conditions.
func (s Scope) Validate() error {
	for name, v := range map[string]string{"domain": s.Domain, "tenant": s.Tenant, "user": s.UserID} {
		if v == "" {
			return fmt.Errorf("%w: empty %s", common.ErrInvalidScope, name)
		}
	}
	for _, v := range []string{s.Domain, s.Tenant, s.UserID, s.SessionID} {
		if strings.Contains(v, keySep) {
			return fmt.Errorf("%w: component %q contains separator %q", common.ErrInvalidScope, v, keySep)
		}
	}
	return nil
}

// Key derives the storage key for one field of this scope. Two distinct
// scopes never produce the same key: components are joined by a separator
// not permitted inside any of them.
func (s Scope) Key(field string) string {
	return s.Prefix() + field
}

// Prefix returns the common key prefix of every field in this scope,
// including the trailing separator. Scope wipes remove this prefix.
func (s Scope) Prefix() string {
	parts := []string{keyPrefix, s.Domain, s.Tenant, s.UserID}
	if s.SessionID != "" {
		parts = append(parts, s.SessionID)
	}
	return strings.Join(parts, keySep) + keySep
}

func (s Scope) String() string {
	if s.SessionID == "" {
		return fmt.Sprintf("%s/%s/%s", s.Domain, s.Tenant, s.UserID)
	}
	return fmt.Sprintf("%s/%s/%s/%s", s.Domain, s.Tenant, s.UserID, s.SessionID)
}

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

	"github.com/26JATIN/scholardesk-sub002/internal/config"
	"github.com/26JATIN/scholardesk-sub002/internal/portal"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// resolveIdentity merges CLI flags with the settings defaults.
func resolveIdentity(settings *config.Settings) (portal.Identity, string, error) {
	tenant := flagTenant
	if tenant == "" {
		tenant = settings.Portal.Tenant
	}
	user := flagUser
	if user == "" {
		user = settings.Portal.UserID
	}
	session := flagSession
	if session == "" {
		session = settings.Portal.Session
	}
	if tenant == "" || user == "" {
		return portal.Identity{}, "", fmt.Errorf("tenant and user are required (flags or settings.yaml)")
	}
	return portal.Identity{Tenant: tenant, UserID: user}, session, nil
}

// openServices opens the shared store and builds the domain services from
// flags and settings. The caller owns the returned store handle.
func openServices() (*store.Store, *portal.Services, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, err
	}
	id, session, err := resolveIdentity(settings)
	if err != nil {
		return nil, nil, err
	}
	validities, err := settings.Validities()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.OpenOrCreate(config.StorePath())
	if err != nil {
		return nil, nil, err
	}
	svcs, err := portal.NewServices(st, id, session, validities)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, svcs, nil
}

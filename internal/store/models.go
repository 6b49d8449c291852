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

package store

import (
	"github.com/uptrace/bun"
)

// Bun ORM models for the preference-store tables.

// SchemaInfoModel represents the schema_info table
type SchemaInfoModel struct {
	bun.BaseModel `bun:"table:schema_info"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// PrefModel represents the prefs table. Every value is stored as text;
// Kind records which typed accessor wrote it so reads can reject a
// mismatched decode instead of silently returning garbage.
type PrefModel struct {
	bun.BaseModel `bun:"table:prefs"`

	Key       string `bun:"key,pk"`
	Kind      string `bun:"kind,notnull"` // "string", "int", "bool"
	Value     string `bun:"value,notnull"`
	UpdatedAt int64  `bun:"updated_at,notnull"` // Unix timestamp
}

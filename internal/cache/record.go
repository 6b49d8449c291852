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
	"encoding/json"
	"strings"
)

// Record is the persisted shape of one cached payload. CachedAtMillis is
// embedded for round-tripping and additionally stored under a separate int
// key so freshness checks never decode the payload.
type Record[T any] struct {
	Payload        T     `json:"payload"`
	CachedAtMillis int64 `json:"cached_at_millis"`
}

// encodeRecord serializes a record to the stored JSON blob.
func encodeRecord[T any](rec Record[T]) (string, error) {
	blob, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

// decodeRecord parses a stored blob. Strict: unknown fields mean the blob
// was written by an incompatible build and must read as a miss, not as a
// partially-populated record.
func decodeRecord[T any](blob string) (Record[T], error) {
	var rec Record[T]
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return Record[T]{}, err
	}
	return rec, nil
}

// encodeItems serializes a feed item list to the stored JSON blob.
// A nil slice encodes as an empty array so reads round-trip a non-nil list.
func encodeItems[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

// decodeSlice parses a stored JSON array of items.
func decodeSlice[T any](blob string) ([]T, error) {
	var items []T
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

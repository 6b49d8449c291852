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
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/26JATIN/scholardesk-sub002/internal/common"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// Field names within a scope.
const (
	fieldPayload  = "payload"
	fieldCachedAt = "cached_at"
)

// Result is what a cached read returns: the decoded payload, when it was
// written, and whether it is still inside its validity window.
type Result[T any] struct {
	Payload        T
	CachedAtMillis int64
	Fresh          bool
}

// TimedCache is a single-record cache over one scope with a fixed validity
// window. A zero validity never expires. Reads are offline-first: stale data
// is still returned, flagged Fresh=false, so screens can render immediately
// while a refresh runs.
type TimedCache[T any] struct {
	store    *store.Store
	scope    Scope
	validity time.Duration
	now      func() time.Time
}

// NewTimedCache builds a timed cache for one scope. The scope and validity
// are validated here: a malformed scope or negative validity is programmer
// error and fails fast.
func NewTimedCache[T any](st *store.Store, scope Scope, validity time.Duration) (*TimedCache[T], error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if validity < 0 {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidValidity, validity)
	}
	return &TimedCache[T]{store: st, scope: scope, validity: validity, now: time.Now}, nil
}

// WithClock replaces the wall clock. Tests only.
func (c *TimedCache[T]) WithClock(now func() time.Time) *TimedCache[T] {
	c.now = now
	return c
}

// Scope returns the cache's scope.
func (c *TimedCache[T]) Scope() Scope {
	return c.scope
}

// Put overwrites the cached payload and stamps it with the current time.
// The payload blob and the freshness timestamp are written in one
// transaction so a reader never observes a torn record.
func (c *TimedCache[T]) Put(ctx context.Context, payload T) error {
	if Disabled {
		return nil
	}
	nowMillis := c.now().UnixMilli()
	blob, err := encodeRecord(Record[T]{Payload: payload, CachedAtMillis: nowMillis})
	if err != nil {
		return fmt.Errorf("encode %s record: %w", c.scope.Domain, err)
	}
	return c.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.SetString(ctx, c.scope.Key(fieldPayload), blob); err != nil {
			return err
		}
		return tx.SetInt64(ctx, c.scope.Key(fieldCachedAt), nowMillis)
	})
}

// Get returns the cached record, or nil on a miss. Corrupt blobs and records
// missing their timestamp (torn writes from older builds) read as misses and
// are logged, never surfaced as errors.
func (c *TimedCache[T]) Get(ctx context.Context) (*Result[T], error) {
	if Disabled {
		return nil, nil
	}
	cachedAt, ok, err := c.store.GetInt64(ctx, c.scope.Key(fieldCachedAt))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	blob, ok, err := c.store.GetString(ctx, c.scope.Key(fieldPayload))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	rec, derr := decodeRecord[T](blob)
	if derr != nil {
		log.WithFields(log.Fields{"scope": c.scope.String(), "err": derr}).
			Warn("corrupt cache record, treating as miss")
		return nil, nil
	}
	return &Result[T]{
		Payload:        rec.Payload,
		CachedAtMillis: cachedAt,
		Fresh:          IsFresh(cachedAt, c.now().UnixMilli(), c.validity),
	}, nil
}

// Clear wipes every key in this scope, returning it to the empty state.
func (c *TimedCache[T]) Clear(ctx context.Context) error {
	_, err := c.store.RemovePrefix(ctx, c.scope.Prefix())
	return err
}

// AgeString returns the human-readable age of the cached record and whether
// a record exists at all.
func (c *TimedCache[T]) AgeString(ctx context.Context) (string, bool, error) {
	cachedAt, ok, err := c.store.GetInt64(ctx, c.scope.Key(fieldCachedAt))
	if err != nil || !ok {
		return "", false, err
	}
	return AgeString(cachedAt, c.now().UnixMilli()), true, nil
}

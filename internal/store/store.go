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

// Package store implements the durable preference store backing the cache
// layer: a single SQLite file holding typed (string/int/bool) values by key.
//
// The store guarantees per-key atomicity (a write is fully applied or not
// observed) and nothing more; multi-key records are the cache layer's problem.
// Absent keys are not errors — typed getters return ok=false.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "github.com/tursodatabase/go-libsql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/26JATIN/scholardesk-sub002/internal/common"
	"github.com/26JATIN/scholardesk-sub002/internal/util"
)

// Store is a SQLite-backed typed key-value store.
// One handle is shared by all domain cache services; their key namespaces
// never overlap, so no cross-service coordination is needed.
type Store struct {
	path string
	db   *sql.DB
	bun  *bun.DB
}

// execPragma runs a PRAGMA statement using Query (not Exec) because libsql
// returns rows for PRAGMA statements. The result rows are drained and closed.
func execPragma(db *sql.DB, pragma string) error {
	rows, err := db.Query(pragma)
	if err != nil {
		return err
	}
	rows.Close()
	return nil
}

// applyPragmas sets essential PRAGMAs after opening a libsql connection.
// libsql ignores DSN-based _pragma=value parameters, so all PRAGMAs must be
// set explicitly via SQL statements after the connection is opened.
func applyPragmas(db *sql.DB) error {
	// Busy timeout MUST be set first — all subsequent PRAGMAs (especially
	// journal_mode=WAL which needs exclusive access) will wait for locks
	// instead of failing immediately with "database is locked".
	if err := execPragma(db, fmt.Sprintf("PRAGMA busy_timeout = %d", GetBusyTimeout())); err != nil {
		return fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	// WAL mode: enables concurrent readers during writes (CLI racing a
	// background refresh in the app process).
	if err := execPragma(db, "PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to set journal_mode=WAL: %w", err)
	}

	// synchronous=NORMAL: WAL mode with NORMAL sync is safe against process
	// crashes. Avoids fsync on every commit.
	if err := execPragma(db, "PRAGMA synchronous=NORMAL"); err != nil {
		return fmt.Errorf("failed to set synchronous=NORMAL: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return nil
}

// Create creates a new preference-store file at path.
// Creation is guarded by a file lock so concurrent `init` invocations cannot
// race the schema bootstrap. Returns common.ErrStoreExists if the file exists.
func Create(path string) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrStoreExists, path)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return nil, common.ErrLocked
	}
	defer lock.Unlock()

	db, err := sql.Open("libsql", BuildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		os.Remove(path)
		return nil, err
	}

	if err := execStatements(db, prefsSchema); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := execStatements(db, initPrefsStore, SchemaVersion, uuid.NewString()); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to seed schema info: %w", err)
	}

	log.WithField("path", path).Debug("created preference store")
	return &Store{path: path, db: db, bun: bun.NewDB(db, sqlitedialect.New())}, nil
}

// Open opens an existing preference-store file.
// Returns common.ErrStoreMissing if the file does not exist.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", common.ErrStoreMissing, path)
	}

	db, err := sql.Open("libsql", BuildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	// Schema application is idempotent; picks up tables missing from
	// stores created by older builds.
	if err := execStatements(db, prefsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}

	return &Store{path: path, db: db, bun: bun.NewDB(db, sqlitedialect.New())}, nil
}

// OpenOrCreate opens the store at path, creating it on first use.
func OpenOrCreate(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Create(path)
	}
	return Open(path)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.bun = nil
	return err
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// ID returns the store identity written at creation time.
func (s *Store) ID(ctx context.Context) (string, error) {
	return s.schemaInfo(ctx, "store_id")
}

// Version returns the schema version of the store file.
func (s *Store) Version(ctx context.Context) (string, error) {
	return s.schemaInfo(ctx, "version")
}

func (s *Store) schemaInfo(ctx context.Context, key string) (string, error) {
	if s.bun == nil {
		return "", common.ErrStoreClosed
	}
	var info SchemaInfoModel
	err := s.bun.NewSelect().
		Model(&info).
		Where("key = ?", key).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return info.Value, nil
}

// --- Typed accessors ---

// GetString retrieves a string value. ok is false when the key is absent or
// was written by a differently-typed setter.
func (s *Store) GetString(ctx context.Context, key string) (string, bool, error) {
	return s.get(ctx, key, KindString)
}

// SetString stores a string value under key.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.set(ctx, key, KindString, value)
}

// GetInt64 retrieves an integer value.
func (s *Store) GetInt64(ctx context.Context, key string) (int64, bool, error) {
	raw, ok, err := s.get(ctx, key, KindInt)
	if err != nil || !ok {
		return 0, false, err
	}
	n, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		log.WithFields(log.Fields{"key": key, "value": raw}).Warn("unparseable int value, treating as absent")
		return 0, false, nil
	}
	return n, true, nil
}

// SetInt64 stores an integer value under key.
func (s *Store) SetInt64(ctx context.Context, key string, value int64) error {
	return s.set(ctx, key, KindInt, strconv.FormatInt(value, 10))
}

// GetBool retrieves a boolean value.
func (s *Store) GetBool(ctx context.Context, key string) (bool, bool, error) {
	raw, ok, err := s.get(ctx, key, KindBool)
	if err != nil || !ok {
		return false, false, err
	}
	return raw == "1", true, nil
}

// SetBool stores a boolean value under key.
func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	raw := "0"
	if value {
		raw = "1"
	}
	return s.set(ctx, key, KindBool, raw)
}

func (s *Store) get(ctx context.Context, key, kind string) (string, bool, error) {
	if s.bun == nil {
		return "", false, common.ErrStoreClosed
	}
	var pref PrefModel
	err := s.bun.NewSelect().
		Model(&pref).
		Where("key = ?", key).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if pref.Kind != kind {
		log.WithFields(log.Fields{"key": key, "want": kind, "got": pref.Kind}).
			Warn("kind mismatch on read, treating as absent")
		return "", false, nil
	}
	return pref.Value, true, nil
}

func (s *Store) set(ctx context.Context, key, kind, value string) error {
	if s.bun == nil {
		return common.ErrStoreClosed
	}
	return util.Retry(ctx, func() error {
		_, err := s.bun.NewInsert().
			Model(&PrefModel{Key: key, Kind: kind, Value: value, UpdatedAt: time.Now().Unix()}).
			On("CONFLICT (key) DO UPDATE").
			Set("kind = EXCLUDED.kind").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	}, util.StoreRetryOptions(ctx)...)
}

// Remove deletes a key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.bun == nil {
		return common.ErrStoreClosed
	}
	return util.Retry(ctx, func() error {
		_, err := s.bun.NewDelete().
			Model((*PrefModel)(nil)).
			Where("key = ?", key).
			Exec(ctx)
		return err
	}, util.StoreRetryOptions(ctx)...)
}

// RemovePrefix deletes all keys with the given prefix and returns how many
// rows were removed. Used for scope wipes (ClearCache, version invalidation).
func (s *Store) RemovePrefix(ctx context.Context, prefix string) (int64, error) {
	if s.bun == nil {
		return 0, common.ErrStoreClosed
	}
	return util.RetryWithResult(ctx, func() (int64, error) {
		res, err := s.bun.NewDelete().
			Model((*PrefModel)(nil)).
			Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
			Exec(ctx)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}, util.StoreRetryOptions(ctx)...)
}

// Keys returns all stored keys with the given prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if s.bun == nil {
		return nil, common.ErrStoreClosed
	}
	var keys []string
	err := s.bun.NewRaw(`SELECT key FROM prefs WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%").Scan(ctx, &keys)
	return keys, err
}

// CompareAndSetInt64 atomically sets key to value iff the stored value is
// absent or <= ifAtMost. Returns true when the write happened. SQLite
// serializes writers, so this is a cross-process compare-and-set; the cache
// layer uses it for the new-item-check rate limit.
func (s *Store) CompareAndSetInt64(ctx context.Context, key string, ifAtMost, value int64) (bool, error) {
	if s.bun == nil {
		return false, common.ErrStoreClosed
	}
	return util.RetryWithResult(ctx, func() (bool, error) {
		var won bool
		err := s.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			var pref PrefModel
			err := tx.NewSelect().
				Model(&pref).
				Where("key = ?", key).
				Scan(ctx)
			if err != nil && err != sql.ErrNoRows {
				return err
			}
			if err == nil && pref.Kind == KindInt {
				cur, perr := strconv.ParseInt(pref.Value, 10, 64)
				if perr == nil && cur > ifAtMost {
					won = false
					return nil
				}
			}
			_, err = tx.NewInsert().
				Model(&PrefModel{Key: key, Kind: KindInt, Value: strconv.FormatInt(value, 10), UpdatedAt: time.Now().Unix()}).
				On("CONFLICT (key) DO UPDATE").
				Set("kind = EXCLUDED.kind").
				Set("value = EXCLUDED.value").
				Set("updated_at = EXCLUDED.updated_at").
				Exec(ctx)
			if err != nil {
				return err
			}
			won = true
			return nil
		})
		return won, err
	}, util.StoreRetryOptions(ctx)...)
}

// RunInTx executes fn inside a single transaction. Multi-field cache records
// are written through this so a record is never observed half-applied.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if s.bun == nil {
		return common.ErrStoreClosed
	}
	return util.Retry(ctx, func() error {
		return s.bun.RunInTx(ctx, nil, func(ctx context.Context, btx bun.Tx) error {
			return fn(ctx, Tx{tx: btx})
		})
	}, util.StoreRetryOptions(ctx)...)
}

// Tx exposes the typed setters inside a store transaction.
type Tx struct {
	tx bun.Tx
}

// SetString stores a string value under key within the transaction.
func (t Tx) SetString(ctx context.Context, key, value string) error {
	return t.set(ctx, key, KindString, value)
}

// SetInt64 stores an integer value under key within the transaction.
func (t Tx) SetInt64(ctx context.Context, key string, value int64) error {
	return t.set(ctx, key, KindInt, strconv.FormatInt(value, 10))
}

// SetBool stores a boolean value under key within the transaction.
func (t Tx) SetBool(ctx context.Context, key string, value bool) error {
	raw := "0"
	if value {
		raw = "1"
	}
	return t.set(ctx, key, KindBool, raw)
}

// Remove deletes a key within the transaction.
func (t Tx) Remove(ctx context.Context, key string) error {
	_, err := t.tx.NewDelete().
		Model((*PrefModel)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return err
}

func (t Tx) set(ctx context.Context, key, kind, value string) error {
	_, err := t.tx.NewInsert().
		Model(&PrefModel{Key: key, Kind: kind, Value: value, UpdatedAt: time.Now().Unix()}).
		On("CONFLICT (key) DO UPDATE").
		Set("kind = EXCLUDED.kind").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// escapeLike escapes LIKE wildcards in a literal prefix. Scope keys contain
// no wildcards today, but tenant abbreviations are caller-supplied.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

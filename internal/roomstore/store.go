package roomstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Key prefixes for the record families shared between teacher and
// student sessions.
const (
	classroomPrefix   = "classroom:"
	submissionsPrefix = "submissions:"
	settingsPrefix    = "settings:"
)

// ClassroomKey returns the storage key for a room's posted activity.
func ClassroomKey(code string) string { return classroomPrefix + code }

// SubmissionsKey returns the storage key for a room's submission list.
func SubmissionsKey(code string) string { return submissionsPrefix + code }

// SettingsKey returns the storage key for a saved settings profile.
func SettingsKey(profile string) string { return settingsPrefix + profile }

// Store is an origin-scoped key-value store with cross-session change
// notification. Values are stored as JSON; every write bumps a per-key
// revision that subscribers poll.
type Store struct {
	db *sql.DB

	// PollInterval is how often subscriptions check for new revisions.
	PollInterval time.Duration
}

// New opens (or creates) the store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db, PollInterval: time.Second}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		revision INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Write serializes value and stores it under key, overwriting any
// existing entry and bumping the key's revision. A failed write returns
// an error wrapping ErrStorageUnavailable; nothing is partially saved.
func (s *Store) Write(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value, revision, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?, revision = revision + 1, updated_at = ?`,
		key, string(data), time.Now(), string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("write %q: %w: %w", key, ErrStorageUnavailable, err)
	}
	return nil
}

// Read deserializes the value stored under key into dest. It returns
// false with a nil error when the key is absent, and a CorruptDataError
// when the stored bytes cannot be parsed.
func (s *Store) Read(key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, &CorruptDataError{Key: key, Err: err}
	}
	return true, nil
}

// Delete removes the entry at key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w: %w", key, ErrStorageUnavailable, err)
	}
	return nil
}

// AppendOrReplace reads the list stored at key (empty when absent),
// removes every item matching the predicate, appends item, and writes
// the whole list back. This enforces list-level upsert semantics, but it
// is a read-modify-write: two sessions appending at the same instant can
// race and the slower write replaces the faster one wholesale. That
// last-write-wins gap is an accepted property of the storage primitive;
// each item is idempotently keyed, so a lost race means one resubmission.
func (s *Store) AppendOrReplace(key string, match func(json.RawMessage) bool, item any) error {
	var list []json.RawMessage
	found, err := s.Read(key, &list)
	if err != nil {
		return err
	}
	if !found {
		list = nil
	}

	kept := list[:0]
	for _, raw := range list {
		if !match(raw) {
			kept = append(kept, raw)
		}
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item for %q: %w", key, err)
	}
	kept = append(kept, raw)

	return s.Write(key, kept)
}

// Revision returns the current revision of key, or 0 when absent.
func (s *Store) Revision(key string) (int64, error) {
	var rev int64
	err := s.db.QueryRow(`SELECT revision FROM kv WHERE key = ?`, key).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("revision %q: %w", key, err)
	}
	return rev, nil
}

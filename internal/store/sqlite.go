package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite. Response bodies are
// gzip-compressed at rest.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Timestamps are stored as integer unix nanoseconds so range comparisons and
// the throttle's sub-second precision stay exact.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS response_cache (
	id         TEXT PRIMARY KEY,
	cache_key  TEXT NOT NULL UNIQUE,
	body       BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS request_log (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	last_request INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_response_cache_expires_at ON response_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the cached body for key if a non-expired entry exists.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM response_cache WHERE cache_key = ? AND expires_at > ?`,
		key, time.Now().UnixNano(),
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get cached response")
	}

	zr, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: open cached response")
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: decompress cached response")
	}
	if err := zr.Close(); err != nil {
		return nil, false, eris.Wrap(err, "sqlite: close gzip reader")
	}
	return body, true, nil
}

// Set stores body under key with the given TTL, replacing any prior entry.
func (s *SQLiteStore) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		return eris.Wrap(err, "sqlite: compress response")
	}
	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "sqlite: flush gzip writer")
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (id, cache_key, body, created_at, expires_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET body = excluded.body, created_at = excluded.created_at, expires_at = excluded.expires_at`,
		uuid.NewString(), key, buf.Bytes(), now.UnixNano(), now.Add(ttl).UnixNano(),
	)
	return eris.Wrap(err, "sqlite: set cached response")
}

// DeleteExpired removes expired cache entries, returning how many were dropped.
func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM response_cache WHERE expires_at <= ?`, time.Now().UnixNano(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

// LastRequest returns the recorded timestamp of the previous outbound
// request, or the zero time when none has been recorded.
func (s *SQLiteStore) LastRequest(ctx context.Context) (time.Time, error) {
	var nanos int64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_request FROM request_log WHERE id = 1`,
	).Scan(&nanos)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, eris.Wrap(err, "sqlite: last request")
	}
	return time.Unix(0, nanos), nil
}

// SetLastRequest records t as the most recent outbound request time.
func (s *SQLiteStore) SetLastRequest(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request_log (id, last_request) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_request = excluded.last_request`,
		t.UnixNano(),
	)
	return eris.Wrap(err, "sqlite: set last request")
}

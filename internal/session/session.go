// Package session persists the auth session between runs, the way the
// original web client keeps it in browser storage. One SQLite row is plenty.
package session

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"daftar/internal/supabase"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("session db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS session (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	expires_at TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Save upserts the single session row.
func (s *Store) Save(sess supabase.Session) error {
	now := time.Now().UTC().Format(time.RFC3339)
	expires := ""
	if !sess.ExpiresAt.IsZero() {
		expires = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(`
INSERT INTO session (id, access_token, refresh_token, user_id, email, expires_at, updated_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	access_token = excluded.access_token,
	refresh_token = excluded.refresh_token,
	user_id = excluded.user_id,
	email = excluded.email,
	expires_at = excluded.expires_at,
	updated_at = excluded.updated_at;`,
		sess.AccessToken, sess.RefreshToken, sess.UserID, sess.Email, expires, now)
	return err
}

// Load returns the persisted session, or (zero, false) when none is stored.
func (s *Store) Load() (supabase.Session, bool, error) {
	row := s.db.QueryRow(`SELECT access_token, refresh_token, user_id, email, expires_at FROM session WHERE id = 1;`)

	var sess supabase.Session
	var expires string
	err := row.Scan(&sess.AccessToken, &sess.RefreshToken, &sess.UserID, &sess.Email, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return supabase.Session{}, false, nil
	}
	if err != nil {
		return supabase.Session{}, false, err
	}
	if expires != "" {
		if t, err := time.Parse(time.RFC3339, expires); err == nil {
			sess.ExpiresAt = t
		}
	}
	return sess, true, nil
}

// Clear drops the stored session on sign-out.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session WHERE id = 1;`)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mailnet/internal/model"

	_ "modernc.org/sqlite"
)

// DefaultFilename is the session database created inside the config dir.
const DefaultFilename = "mailnet.db"

// Metadata keys.
const (
	MetaLastMailbox = "last_mailbox"
	MetaLastPage    = "last_page"
)

// SQLiteStore persists session state between runs: server cookies, the
// unsent compose draft and the last list the user looked at. Every row is
// scoped to a server base URL so two servers never share a session.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Debugf("opened session store %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS cookies (
	server  TEXT NOT NULL,
	name    TEXT NOT NULL,
	value   TEXT NOT NULL DEFAULT '',
	path    TEXT NOT NULL DEFAULT '/',
	expires INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (server, name)
);

CREATE TABLE IF NOT EXISTS drafts (
	server     TEXT PRIMARY KEY,
	recipients TEXT NOT NULL DEFAULT '',
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS metadata (
	server TEXT NOT NULL,
	key    TEXT NOT NULL,
	value  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (server, key)
);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCookies upserts the given cookies for server. Cookies with an empty
// value are removed, which is how a logout shows up in the jar.
func (s *SQLiteStore) SaveCookies(ctx context.Context, server string, cookies []*http.Cookie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO cookies (server, name, value, path, expires)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(server, name) DO UPDATE SET
			value   = excluded.value,
			path    = excluded.path,
			expires = excluded.expires
	`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	for _, c := range cookies {
		if c.Value == "" {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM cookies WHERE server = ? AND name = ?", server, c.Name); err != nil {
				return err
			}
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		var expires int64
		if !c.Expires.IsZero() {
			expires = c.Expires.Unix()
		}
		if _, err := upsert.ExecContext(ctx, server, c.Name, c.Value, path, expires); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadCookies returns the unexpired cookies stored for server.
func (s *SQLiteStore) LoadCookies(ctx context.Context, server string) ([]*http.Cookie, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, value, path, expires FROM cookies WHERE server = ? ORDER BY name", server)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var out []*http.Cookie
	for rows.Next() {
		var (
			c       http.Cookie
			expires int64
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &expires); err != nil {
			return nil, err
		}
		if expires != 0 {
			c.Expires = time.Unix(expires, 0)
			if c.Expires.Before(now) {
				continue
			}
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// ClearCookies forgets the session for server.
func (s *SQLiteStore) ClearCookies(ctx context.Context, server string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cookies WHERE server = ?", server)
	return err
}

// SaveDraft stores the compose form so it survives a restart. A zero draft
// clears it.
func (s *SQLiteStore) SaveDraft(ctx context.Context, server string, d model.Draft) error {
	if d.IsZero() {
		return s.ClearDraft(ctx, server)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (server, recipients, subject, body) VALUES (?, ?, ?, ?)
		ON CONFLICT(server) DO UPDATE SET
			recipients = excluded.recipients,
			subject    = excluded.subject,
			body       = excluded.body
	`, server, d.Recipients, d.Subject, d.Body)
	return err
}

// LoadDraft returns the saved draft, or a zero Draft when there is none.
func (s *SQLiteStore) LoadDraft(ctx context.Context, server string) (model.Draft, error) {
	var d model.Draft
	err := s.db.QueryRowContext(ctx,
		"SELECT recipients, subject, body FROM drafts WHERE server = ?", server).
		Scan(&d.Recipients, &d.Subject, &d.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, nil
	}
	return d, err
}

func (s *SQLiteStore) ClearDraft(ctx context.Context, server string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE server = ?", server)
	return err
}

func (s *SQLiteStore) GetMeta(ctx context.Context, server, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE server = ? AND key = ?", server, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

func (s *SQLiteStore) SetMeta(ctx context.Context, server, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (server, key, value) VALUES (?, ?, ?)
		ON CONFLICT(server, key) DO UPDATE SET value = excluded.value
	`, server, key, value)
	return err
}

// LastList returns the mailbox and feed page the user last viewed. Missing
// or corrupt values come back as "" and 1.
func (s *SQLiteStore) LastList(ctx context.Context, server string) (string, int, error) {
	mailbox, err := s.GetMeta(ctx, server, MetaLastMailbox)
	if err != nil {
		return "", 1, err
	}
	raw, err := s.GetMeta(ctx, server, MetaLastPage)
	if err != nil {
		return mailbox, 1, err
	}
	page, convErr := strconv.Atoi(raw)
	if convErr != nil || page < 1 {
		page = 1
	}
	return mailbox, page, nil
}

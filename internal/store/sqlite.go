// internal/store/sqlite.go
//
// SQLite-backed cache of pre-generated universes and named solution pools.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Storing/loading the equation table for a length so enumeration runs once.
//   - Storing/loading named known-solution pools.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/assets"
	"github.com/robalobadob/nerdle/internal/words"
)

var ErrNotCached = errors.New("store: universe not cached")

// Cache wraps the SQLite handle.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and creates if missing) the SQLite file at dsn and migrates it.
// The special dsn ":memory:" gives a private in-memory database.
func OpenCache(dsn string) (*Cache, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error { return c.db.Close() }

// openDB ensures the parent directory exists and configures busy timeout, WAL
// journaling and foreign keys.
func openDB(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases from splitting per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies the embedded schema scripts in lexical order, each in its own
// transaction, skipping scripts already recorded in _migrations.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

// LoadUniverse returns the cached universe for length, or ErrNotCached.
func (c *Cache) LoadUniverse(ctx context.Context, length int) (*words.Universe, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT count FROM universes WHERE length=?`, length).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	list, err := c.queryEquations(ctx, `SELECT equation FROM equations WHERE length=?`, length)
	if err != nil {
		return nil, err
	}
	if len(list) != count {
		return nil, fmt.Errorf("universe %d: expected %d equations, found %d", length, count, len(list))
	}
	return words.NewUniverse(length, list)
}

// SaveUniverse replaces the cached table for u's length.
func (c *Cache) SaveUniverse(ctx context.Context, u *words.Universe) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM equations WHERE length=?`, `DELETE FROM universes WHERE length=?`} {
		if _, err := tx.ExecContext(ctx, q, u.Length()); err != nil {
			return fmt.Errorf("clear universe: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO universes (length, count, generated_at) VALUES (?,?,?)`,
		u.Length(), u.Len(), time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert universe: %w", err)
	}
	if err := insertEquations(ctx, tx, `INSERT INTO equations (length, equation) VALUES (?,?)`,
		u.Words(), u.Length()); err != nil {
		return err
	}
	return tx.Commit()
}

// SavePool stores a named solution pool. Every equation must belong to u.
func (c *Cache) SavePool(ctx context.Context, name string, u *words.Universe, list []string) error {
	if _, err := u.Subset(list); err != nil {
		return err
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pools WHERE name=? AND length=?`, name, u.Length()); err != nil {
		return fmt.Errorf("clear pool: %w", err)
	}
	if err := insertEquations(ctx, tx, `INSERT OR IGNORE INTO pools (length, equation, name) VALUES (?,?,?)`,
		list, u.Length(), name); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadPool returns the named pool as a candidate set of u. A pool with no rows is
// reported as ErrNotFound.
func (c *Cache) LoadPool(ctx context.Context, name string, u *words.Universe) (*words.Set, error) {
	list, err := c.queryEquations(ctx, `SELECT equation FROM pools WHERE name=? AND length=?`, name, u.Length())
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("pool %q: %w", name, ErrNotFound)
	}
	return u.Subset(list)
}

func (c *Cache) queryEquations(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var eq string
		if err := rows.Scan(&eq); err != nil {
			return nil, err
		}
		out = append(out, eq)
	}
	return out, rows.Err()
}

// insertEquations runs stmt once per equation with (length, equation, extra...) args.
func insertEquations(ctx context.Context, tx *sql.Tx, stmt string, list []string, length int, extra ...any) error {
	ps, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer ps.Close()
	for _, eq := range list {
		args := append([]any{length, eq}, extra...)
		if _, err := ps.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", eq, err)
		}
	}
	return nil
}

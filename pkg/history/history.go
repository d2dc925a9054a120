package history

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"

	"github.com/macropower/clipfix/pkg/clipboard"
	"github.com/macropower/clipfix/pkg/coordinator"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DefaultLimit is the number of entries returned by [Store.List] when the
// limit is not positive.
const DefaultLimit = 20

// ErrNotReplaced is returned by [Store.Record] for results that did not
// change the clipboard.
var ErrNotReplaced = errors.New("clipboard was not replaced")

var _ coordinator.Recorder = (*Store)(nil)

// connParams are applied by the modernc driver to every new connection.
// A second clipfix process waits on the busy timeout instead of failing with
// SQLITE_BUSY.
const connParams = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// migrateMu guards goose's package-level configuration.
var migrateMu sync.Mutex

// Entry is a recorded rewrite.
type Entry struct {
	Time        time.Time `db:"created_at"`
	Mode        string    `db:"mode"`
	Recipe      string    `db:"recipe"`
	Before      string    `db:"before_text"`
	After       string    `db:"after_text"`
	RecipeIndex int       `db:"recipe_index"`
	ID          uuid.UUID `db:"id"`
}

// Store is a rewrite history backed by SQLite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Opt configures a [Store].
type Opt func(*Store)

// WithClock sets the function used to timestamp entries.
func WithClock(now func() time.Time) Opt {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens the database at path, creating it and its parent directory if
// needed, and applies all pending migrations.
func Open(path string, opts ...Opt) (*Store, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}

	db, err := sqlx.Connect("sqlite", path+"?"+connParams)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	err = migrate(db)
	if err != nil {
		_ = db.Close() //nolint:errcheck // Already failing.

		return nil, err
	}

	s := &Store{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func migrate(db *sqlx.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	err := goose.SetDialect(string(goose.DialectSQLite3))
	if err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	err = goose.Up(db.DB, "migrations")
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Record stores a replaced clipboard result.
func (s *Store) Record(ctx context.Context, res clipboard.Result, mode coordinator.Mode) error {
	if !res.Replaced {
		return ErrNotReplaced
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("create id: %w", err)
	}

	e := Entry{
		ID:          id,
		Time:        s.now().UTC(),
		Mode:        mode.String(),
		Recipe:      res.Match.Recipe.String(),
		RecipeIndex: res.Match.Index,
		Before:      res.Before,
		After:       res.Match.Output,
	}

	query := `INSERT INTO rewrites (id, created_at, mode, recipe, recipe_index, before_text, after_text)
	          VALUES (:id, :created_at, :mode, :recipe, :recipe_index, :before_text, :after_text)`

	_, err = s.db.NamedExecContext(ctx, query, e)
	if err != nil {
		return fmt.Errorf("insert rewrite %s: %w", id, err)
	}

	return nil
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var entries []Entry

	query := `SELECT id, created_at, mode, recipe, recipe_index, before_text, after_text
	          FROM rewrites ORDER BY created_at DESC, id DESC LIMIT ?`

	err := s.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list rewrites: %w", err)
	}

	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("close history: %w", err)
	}

	return nil
}

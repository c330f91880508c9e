package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/cinelog/internal/domain"
	"github.com/pbaille/cinelog/internal/logger"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// querier is the subset of *sql.DB and *sql.Tx the queries need
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements the record accessors against either the pool or a transaction
type queries struct {
	q   querier
	now func() time.Time
}

// Store handles database operations
type Store struct {
	queries
	db *sql.DB
}

// txStore is the Repository handed to InTx callbacks
type txStore struct {
	queries
}

var (
	_ domain.Repository = (*Store)(nil)
	_ domain.Repository = (*txStore)(nil)
)

// New opens the database at dbPath, creating its directory, and migrates the schema
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_loc=auto", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// single local writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Get().WithField("path", dbPath).Debug("Database ready")

	return &Store{
		queries: queries{q: db, now: time.Now},
		db:      db,
	}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(logger.Get())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a transaction. The transaction is rolled back when fn
// fails; a commit failure is returned to the caller as is.
func (s *Store) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&txStore{queries: queries{q: tx, now: s.now}}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Get().WithError(rbErr).Warn("Rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// InTx on a transactional handle joins the running transaction
func (t *txStore) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return fn(t)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func checkAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

// Package sqlstore implements storage.Provider on database/sql. The SQLite
// and PostgreSQL stores share it and differ only in their Dialect and in how
// they open a connection.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/migrations"
)

var errInTx = errors.New("operation not allowed inside a transaction")

// Dialect describes the differences between supported SQL backends.
type Dialect struct {
	Name string
	// MigrationsDir is the subdirectory of migrations.FS holding this dialect's schema.
	MigrationsDir string
	// NumberedParams rewrites ? placeholders to $1, $2, ...
	NumberedParams bool
}

var (
	SQLite   = Dialect{Name: "sqlite", MigrationsDir: "sqlite"}
	Postgres = Dialect{Name: "postgres", MigrationsDir: "postgres", NumberedParams: true}
)

// OpenFunc connects to the database. create is true when called from Init,
// where the backing file or schema may not exist yet.
type OpenFunc func(ctx context.Context, create bool) (*sql.DB, error)

// Config wires a Store to a backend.
type Config struct {
	Dialect Dialect
	Open    OpenFunc
	// ConfigPath is reported by GetConfigPath. It must not contain secrets.
	ConfigPath string
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	cfg  Config
	db   *sql.DB
	q    querier
	inTx bool
}

var _ storage.Provider = (*Store)(nil)

func New(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Init(ctx context.Context) error {
	if s.inTx {
		return errInTx
	}
	if s.db != nil {
		return nil
	}

	db, err := s.cfg.Open(ctx, true)
	if err != nil {
		return err
	}
	s.db = db
	s.q = db

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Fill in any settings keys that are missing, keeping existing values
	existing, err := s.settingsMap(ctx)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	for key, value := range models.SettingsToMap(models.DefaultSettings()) {
		if _, ok := existing[key]; ok {
			continue
		}
		if err := s.putSetting(ctx, key, value); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.inTx {
		return errInTx
	}
	if s.db != nil {
		return nil
	}

	db, err := s.cfg.Open(ctx, false)
	if err != nil {
		return err
	}
	s.db = db
	s.q = db

	return s.runner().ValidateVersion(ctx)
}

func (s *Store) Close() error {
	if s.inTx || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.q = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return s.cfg.ConfigPath
}

// DB returns the underlying connection pool, or nil before Init/Load.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) WithTx(ctx context.Context, fn func(storage.Provider) error) error {
	if s.inTx {
		return fn(s)
	}
	if s.db == nil {
		return fmt.Errorf("storage not initialized")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &Store{cfg: s.cfg, db: s.db, q: tx, inTx: true}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Warn("Failed to roll back transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) runner() *migration.Runner {
	sub, err := fs.Sub(migrations.FS, s.cfg.Dialect.MigrationsDir)
	if err != nil {
		// fs.Sub only fails on an invalid path, which is a constant here
		panic(fmt.Sprintf("invalid migrations dir %q: %v", s.cfg.Dialect.MigrationsDir, err))
	}
	return migration.NewRunner(s.db, sub)
}

// SchemaStatus reports the applied and the newest known schema versions.
func (s *Store) SchemaStatus(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("storage not initialized")
	}
	r := s.runner()
	if current, err = r.GetCurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = r.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	_, err := s.runner().ApplyMigrations(ctx)
	return err
}

// rebind rewrites ? placeholders for dialects that number their parameters.
func (s *Store) rebind(query string) string {
	if !s.cfg.Dialect.NumberedParams {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.q == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	return s.q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.q == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	return s.q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) (*sql.Row, error) {
	if s.q == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	return s.q.QueryRowContext(ctx, s.rebind(query), args...), nil
}

// execOne runs an update that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

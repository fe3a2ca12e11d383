// Package sqlite provides the default single-file storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/sqlstore"
)

// pragmas are applied to every connection the pool opens.
const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// New returns a store backed by the SQLite file at path.
func New(path string) *sqlstore.Store {
	return sqlstore.New(sqlstore.Config{
		Dialect:    sqlstore.SQLite,
		Open:       opener(path),
		ConfigPath: path,
	})
}

func opener(path string) sqlstore.OpenFunc {
	return func(ctx context.Context, create bool) (*sql.DB, error) {
		if create {
			// Create config directory if it doesn't exist
			if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
		} else if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}

		db, err := sql.Open("sqlite", path+pragmas)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	}
}

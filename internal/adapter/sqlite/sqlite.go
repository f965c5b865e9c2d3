// Package sqlite introspects SQLite databases.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

func init() {
	adapter.Register(&sqliteAdapter{})
}

// sqliteAdapter implements adapter.Adapter for SQLite databases.
type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string          { return "sqlite" }
func (a *sqliteAdapter) DefaultPort() int      { return 0 }
func (a *sqliteAdapter) Quoter() schema.Quoter { return schema.DoubleQuote }

func (a *sqliteAdapter) Open(ctx context.Context, dsn string, opts adapter.OpenOptions) (*sql.DB, error) {
	if opts.Driver != "" && opts.Driver != "sqlite" {
		return nil, fmt.Errorf("sqlite open: %w: %q", adapter.ErrUnsupportedDriver, opts.Driver)
	}

	dsn = normalizeDSN(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Each connection to an in-memory database is a separate database, and
	// attached schemas and temp tables live on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

func (a *sqliteAdapter) NewEngine(_ context.Context, q adapter.Queryer, opts adapter.Options) (adapter.Engine, error) {
	e, err := NewEngine(q, opts)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// normalizeDSN strips common SQLite URI prefixes.
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") {
		return strings.TrimPrefix(dsn, "sqlite://")
	}
	if strings.HasPrefix(dsn, "file:") {
		return strings.TrimPrefix(dsn, "file:")
	}
	return dsn
}

// Package postgres introspects PostgreSQL databases.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

func init() {
	adapter.Register(&postgresAdapter{})
}

// postgresAdapter implements adapter.Adapter for PostgreSQL.
type postgresAdapter struct{}

func (a *postgresAdapter) Name() string          { return "postgres" }
func (a *postgresAdapter) DefaultPort() int      { return 5432 }
func (a *postgresAdapter) Quoter() schema.Quoter { return schema.DoubleQuote }

// Open connects through pgx by default. Driver "pq" (or "postgres") selects
// lib/pq instead.
func (a *postgresAdapter) Open(ctx context.Context, dsn string, opts adapter.OpenOptions) (*sql.DB, error) {
	var db *sql.DB
	switch opts.Driver {
	case "", "pgx":
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: invalid dsn: %w", err)
		}
		db = stdlib.OpenDB(*cfg)
	case "pq", "postgres":
		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres open: %w", err)
		}
	default:
		return nil, fmt.Errorf("postgres open: %w: %q", adapter.ErrUnsupportedDriver, opts.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func (a *postgresAdapter) NewEngine(_ context.Context, q adapter.Queryer, opts adapter.Options) (adapter.Engine, error) {
	e, err := NewEngine(q, opts)
	if err != nil {
		return nil, err
	}
	return e, nil
}

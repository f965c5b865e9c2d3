// Package sqlserver introspects Microsoft SQL Server databases.
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

func init() {
	adapter.Register(&sqlserverAdapter{})
}

type sqlserverAdapter struct{}

func (a *sqlserverAdapter) Name() string          { return "sqlserver" }
func (a *sqlserverAdapter) DefaultPort() int      { return 1433 }
func (a *sqlserverAdapter) Quoter() schema.Quoter { return schema.Bracket }

func (a *sqlserverAdapter) Open(ctx context.Context, dsn string, opts adapter.OpenOptions) (*sql.DB, error) {
	driver := opts.Driver
	switch driver {
	case "":
		driver = "sqlserver"
	case "sqlserver", "mssql":
	default:
		return nil, fmt.Errorf("sqlserver open: %w: %q", adapter.ErrUnsupportedDriver, opts.Driver)
	}

	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, fmt.Errorf("sqlserver: invalid dsn: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlserver open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlserver ping: %w", err)
	}
	return db, nil
}

func (a *sqlserverAdapter) NewEngine(_ context.Context, q adapter.Queryer, opts adapter.Options) (adapter.Engine, error) {
	e, err := NewEngine(q, opts)
	if err != nil {
		return nil, err
	}
	return e, nil
}

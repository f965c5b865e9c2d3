package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

var _ adapter.Engine = (*Engine)(nil)

// Engine introspects a MySQL or MariaDB server.
type Engine struct {
	q        adapter.Queryer
	info     ServerInfo
	factory  schema.ColumnFactory
	defaults Defaults
	log      *slog.Logger
}

// NewEngine identifies q for its flavor (once per handle) and returns an engine
// bound to it.
func NewEngine(ctx context.Context, q adapter.Queryer, opts adapter.Options) (*Engine, error) {
	if q == nil {
		return nil, adapter.ErrNotConnected
	}

	info, err := Identify(ctx, q)
	if err != nil {
		return nil, err
	}

	log := opts.Log("mysql")
	log.Debug("server flavor", "version", info.Version, "mariadb", info.MariaDB)

	return &Engine{
		q:        q,
		info:     info,
		factory:  opts.ColumnFactory(),
		defaults: Defaults{MariaDB: info.MariaDB},
		log:      log,
	}, nil
}

// ServerInfo returns the detected server info.
func (e *Engine) ServerInfo() ServerInfo { return e.info }

func (e *Engine) QuoteName(name string) string { return schema.Backtick.QuoteName(name) }

func (e *Engine) ColumnFactory() schema.ColumnFactory { return e.factory }

func (e *Engine) FetchTableList(ctx context.Context, schemaName string) ([]string, error) {
	query := "SHOW TABLES"
	if schemaName != "" {
		query += " IN " + e.QuoteName(schemaName)
	}

	tables, err := adapter.FetchCol(ctx, e.q, query)
	if err != nil {
		return nil, fmt.Errorf("mysql tables: %w", err)
	}
	return tables, nil
}

func (e *Engine) FetchTableCols(ctx context.Context, spec string) (*schema.ColumnMap, error) {
	schemaName, table := schema.SplitName(spec)

	query := "SHOW COLUMNS FROM " + e.QuoteName(table)
	if schemaName != "" {
		query += " IN " + e.QuoteName(schema.StripNonWord(schemaName))
	}

	rows, err := adapter.FetchAll(ctx, e.q, query)
	if err != nil {
		return nil, fmt.Errorf("mysql columns: %w", err)
	}

	cols := schema.NewColumnMap()
	for _, row := range rows {
		typ, size, scale := schema.ParseTypeSpec(row.Str("Type"))
		nullable := row.Str("Null") == "YES"

		cols.Add(e.factory.NewColumn(schema.RawColumn{
			Name:          row.Str("Field"),
			Type:          typ,
			Size:          size,
			Scale:         scale,
			NotNull:       !nullable,
			Default:       e.defaults.NormalizeDefault(row["Default"], typ, nullable),
			AutoIncrement: strings.Contains(row.Str("Extra"), "auto_increment"),
			Primary:       row.Str("Key") == "PRI",
		}))
	}

	e.log.Debug("fetched columns", "table", spec, "count", cols.Len())
	return cols, nil
}

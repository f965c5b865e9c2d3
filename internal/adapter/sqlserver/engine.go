package sqlserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

var _ adapter.Engine = (*Engine)(nil)

// Engine introspects a SQL Server database through its catalog stored
// procedures.
type Engine struct {
	q        adapter.Queryer
	factory  schema.ColumnFactory
	defaults Defaults
	log      *slog.Logger
}

// NewEngine returns an engine bound to q.
func NewEngine(q adapter.Queryer, opts adapter.Options) (*Engine, error) {
	if q == nil {
		return nil, adapter.ErrNotConnected
	}
	return &Engine{
		q:       q,
		factory: opts.ColumnFactory(),
		log:     opts.Log("sqlserver"),
	}, nil
}

func (e *Engine) QuoteName(name string) string { return schema.Bracket.QuoteName(name) }

func (e *Engine) ColumnFactory() schema.ColumnFactory { return e.factory }

// FetchTableList returns every user table. schemaName is not applied.
func (e *Engine) FetchTableList(ctx context.Context, schemaName string) ([]string, error) {
	if schemaName != "" {
		e.log.Debug("schema filter ignored for table list", "schema", schemaName)
	}

	tables, err := adapter.FetchCol(ctx, e.q, "SELECT name FROM sysobjects WHERE type = 'U' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("sqlserver tables: %w", err)
	}
	return tables, nil
}

func (e *Engine) FetchTableCols(ctx context.Context, spec string) (*schema.ColumnMap, error) {
	schemaName, table := schema.SplitName(spec)

	query := "exec sp_columns @table_name = " + e.QuoteName(table)
	if schemaName != "" {
		query += ", @table_owner = " + e.QuoteName(schemaName)
	}

	rows, err := adapter.FetchAll(ctx, e.q, query)
	if err != nil {
		return nil, fmt.Errorf("sqlserver columns: %w", err)
	}

	cols := schema.NewColumnMap()
	if len(rows) == 0 {
		return cols, nil
	}

	keys, err := e.primaryKeys(ctx, rows[0].Str("TABLE_OWNER"), table)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		name := row.Str("COLUMN_NAME")
		typeName := row.Str("TYPE_NAME")
		typ, _, _ := strings.Cut(typeName, " ")
		nullable := row.Str("NULLABLE") != "0"

		cols.Add(e.factory.NewColumn(schema.RawColumn{
			Name:          name,
			Type:          typ,
			Size:          row.Str("PRECISION"),
			Scale:         row.Str("SCALE"),
			NotNull:       !nullable,
			Default:       e.defaults.NormalizeDefault(row["COLUMN_DEF"], typ, nullable),
			AutoIncrement: strings.Contains(strings.ToLower(typeName), "identity"),
			Primary:       keys[name],
		}))
	}

	e.log.Debug("fetched columns", "table", spec, "count", cols.Len())
	return cols, nil
}

func (e *Engine) primaryKeys(ctx context.Context, owner, table string) (map[string]bool, error) {
	rows, err := adapter.FetchAll(ctx, e.q,
		"exec sp_pkeys @table_owner = "+e.QuoteName(owner)+", @table_name = "+e.QuoteName(table))
	if err != nil {
		return nil, fmt.Errorf("sqlserver primary keys: %w", err)
	}

	keys := make(map[string]bool, len(rows))
	for _, row := range rows {
		keys[row.Str("COLUMN_NAME")] = true
	}
	return keys, nil
}

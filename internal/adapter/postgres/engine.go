package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

var _ adapter.Engine = (*Engine)(nil)

const (
	tableListQuery = `SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name`

	allTablesQuery = `SELECT table_schema || '.' || table_name
FROM information_schema.tables
WHERE table_schema != 'pg_catalog'
AND table_schema != 'information_schema'
ORDER BY 1`

	columnsQuery = `SELECT
	columns.column_name AS name,
	columns.data_type AS type,
	COALESCE(columns.character_maximum_length, columns.numeric_precision) AS size,
	columns.numeric_scale AS scale,
	columns.is_nullable AS nullable,
	columns.column_default AS dflt,
	columns.is_identity AS identity,
	table_constraints.constraint_type AS constraint_type
FROM information_schema.columns
	LEFT JOIN information_schema.key_column_usage
		ON columns.table_schema = key_column_usage.table_schema
		AND columns.table_name = key_column_usage.table_name
		AND columns.column_name = key_column_usage.column_name
	LEFT JOIN information_schema.table_constraints
		ON key_column_usage.table_schema = table_constraints.table_schema
		AND key_column_usage.table_name = table_constraints.table_name
		AND key_column_usage.constraint_name = table_constraints.constraint_name
WHERE columns.table_schema = $1
AND columns.table_name = $2
ORDER BY columns.ordinal_position`
)

// Engine introspects a PostgreSQL database.
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
		log:     opts.Log("postgres"),
	}, nil
}

func (e *Engine) QuoteName(name string) string { return schema.DoubleQuote.QuoteName(name) }

func (e *Engine) ColumnFactory() schema.ColumnFactory { return e.factory }

// FetchTableList returns the tables in schemaName. Without a schema it
// returns "schema.table" for every table outside the system catalogs.
func (e *Engine) FetchTableList(ctx context.Context, schemaName string) ([]string, error) {
	var (
		tables []string
		err    error
	)
	if schemaName != "" {
		tables, err = adapter.FetchCol(ctx, e.q, tableListQuery, schemaName)
	} else {
		tables, err = adapter.FetchCol(ctx, e.q, allTablesQuery)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres tables: %w", err)
	}
	return tables, nil
}

// CurrentSchema returns the first schema on the search path.
func (e *Engine) CurrentSchema(ctx context.Context) (string, error) {
	v, err := adapter.FetchValue(ctx, e.q, "SELECT CURRENT_SCHEMA")
	if err != nil {
		return "", fmt.Errorf("postgres current schema: %w", err)
	}
	return v.String, nil
}

func (e *Engine) FetchTableCols(ctx context.Context, spec string) (*schema.ColumnMap, error) {
	schemaName, table := schema.SplitName(spec)
	if schemaName == "" {
		var err error
		if schemaName, err = e.CurrentSchema(ctx); err != nil {
			return nil, err
		}
	}

	rows, err := adapter.FetchAll(ctx, e.q, columnsQuery, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("postgres columns: %w", err)
	}

	// A column in several constraints comes back once per constraint.
	var (
		order []string
		raws  = make(map[string]*schema.RawColumn)
	)
	for _, row := range rows {
		name := row.Str("name")
		primary := row.Str("constraint_type") == "PRIMARY KEY"

		if raw, ok := raws[name]; ok {
			raw.Primary = raw.Primary || primary
			continue
		}

		typ := row.Str("type")
		nullable := row.Str("nullable") == "YES"
		dflt := row["dflt"]

		raws[name] = &schema.RawColumn{
			Name:          name,
			Type:          typ,
			Size:          row.Str("size"),
			Scale:         row.Str("scale"),
			NotNull:       !nullable,
			Default:       e.defaults.NormalizeDefault(dflt, typ, nullable),
			AutoIncrement: strings.HasPrefix(dflt.String, "nextval") || row.Str("identity") == "YES",
			Primary:       primary,
		}
		order = append(order, name)
	}

	cols := schema.NewColumnMap()
	for _, name := range order {
		cols.Add(e.factory.NewColumn(*raws[name]))
	}

	e.log.Debug("fetched columns", "schema", schemaName, "table", table, "count", cols.Len())
	return cols, nil
}

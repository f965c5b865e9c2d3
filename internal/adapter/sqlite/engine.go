package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/schema"
)

var _ adapter.Engine = (*Engine)(nil)

// Engine introspects a SQLite database.
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
		log:     opts.Log("sqlite"),
	}, nil
}

func (e *Engine) QuoteName(name string) string { return schema.DoubleQuote.QuoteName(name) }

func (e *Engine) ColumnFactory() schema.ColumnFactory { return e.factory }

// FetchTableList lists tables in an attached schema, or in the main and
// temp schemas when schemaName is empty.
func (e *Engine) FetchTableList(ctx context.Context, schemaName string) ([]string, error) {
	query := `SELECT name FROM sqlite_master WHERE type = 'table'
UNION ALL
SELECT name FROM sqlite_temp_master WHERE type = 'table'
ORDER BY name`
	if prefix := schemaPrefix(schemaName); prefix != "" {
		query = "SELECT name FROM " + prefix + "sqlite_master WHERE type = 'table' ORDER BY name"
	}

	tables, err := adapter.FetchCol(ctx, e.q, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite tables: %w", err)
	}
	return tables, nil
}

// createTableQuery resolves an unqualified name the way SQLite does: a temp
// table shadows a main table of the same name.
const createTableQuery = `SELECT sql FROM (
	SELECT sql, 0 AS rank FROM sqlite_temp_master WHERE type = 'table' AND name = ?
	UNION ALL
	SELECT sql, 1 AS rank FROM sqlite_master WHERE type = 'table' AND name = ?
) ORDER BY rank LIMIT 1`

// CreateTable returns the CREATE TABLE statement for table, or "" when the
// table does not exist.
func (e *Engine) CreateTable(ctx context.Context, schemaName, table string) (string, error) {
	table = schema.StripNonWord(table)

	var (
		v   sql.NullString
		err error
	)
	if prefix := schemaPrefix(schemaName); prefix != "" {
		v, err = adapter.FetchValue(ctx, e.q,
			"SELECT sql FROM "+prefix+"sqlite_master WHERE type = 'table' AND name = ?", table)
	} else {
		v, err = adapter.FetchValue(ctx, e.q, createTableQuery, table, table)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite create table: %w", err)
	}
	return v.String, nil
}

func (e *Engine) FetchTableCols(ctx context.Context, spec string) (*schema.ColumnMap, error) {
	schemaName, table := schema.SplitName(spec)
	table = schema.StripNonWord(table)

	create, err := e.CreateTable(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}

	rows, err := adapter.FetchAll(ctx, e.q,
		"PRAGMA "+schemaPrefix(schemaName)+"table_info("+e.QuoteName(table)+")")
	if err != nil {
		return nil, fmt.Errorf("sqlite columns: %w", err)
	}

	raws := make([]schema.RawColumn, 0, len(rows))
	defs := make([]ColumnDef, 0, len(rows))
	for _, row := range rows {
		name := row.Str("name")
		typ, size, scale := schema.ParseTypeSpec(row.Str("type"))
		notNull := row.Str("notnull") != "0"

		raws = append(raws, schema.RawColumn{
			Name:          name,
			Type:          typ,
			Size:          size,
			Scale:         scale,
			NotNull:       notNull,
			Default:       e.defaults.NormalizeDefault(row["dflt_value"], typ, !notNull),
			AutoIncrement: IsAutoIncrement(create, name),
			Primary:       row.Str("pk") != "0",
		})
		defs = append(defs, ColumnDef{Name: name, Type: typ})
	}

	cols := schema.NewColumnMap()
	for i := range raws {
		if d, ok := raws[i].Default.(string); ok && d != "" && IsKeywordDefault(create, defs, i) {
			raws[i].Default = nil
		}
		cols.Add(e.factory.NewColumn(raws[i]))
	}

	e.log.Debug("fetched columns", "table", spec, "count", cols.Len())
	return cols, nil
}

// schemaPrefix returns the sanitized "schema." prefix, or "" when no usable
// schema name remains.
func schemaPrefix(schemaName string) string {
	s := schema.StripNonWord(schemaName)
	if s == "" {
		return ""
	}
	return s + "."
}

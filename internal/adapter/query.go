package adapter

import (
	"context"
	"database/sql"
)

// Row is one result row keyed by column name. SQL NULL is an invalid
// NullString.
type Row map[string]sql.NullString

// Str returns the value of column, or "" when it is NULL or missing.
func (r Row) Str(column string) string {
	return r[column].String
}

// FetchAll runs query and returns every row.
func FetchAll(ctx context.Context, q Queryer, query string, args ...any) ([]Row, error) {
	if q == nil {
		return nil, ErrNotConnected
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, name := range cols {
			row[name] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// FetchCol runs query and returns the first column of every row. NULL
// values come back as "".
func FetchCol(ctx context.Context, q Queryer, query string, args ...any) ([]string, error) {
	if q == nil {
		return nil, ErrNotConnected
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []string{}
	for rows.Next() {
		vals := make([]any, len(cols))
		var first sql.NullString
		vals[0] = &first
		for i := 1; i < len(vals); i++ {
			vals[i] = new(any)
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, err
		}
		out = append(out, first.String)
	}
	return out, rows.Err()
}

// FetchValue runs query and returns the first column of the first row. No
// rows yields an invalid NullString and no error.
func FetchValue(ctx context.Context, q Queryer, query string, args ...any) (sql.NullString, error) {
	var v sql.NullString
	if q == nil {
		return v, ErrNotConnected
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return v, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return v, err
	}

	if rows.Next() {
		vals := make([]any, len(cols))
		vals[0] = &v
		for i := 1; i < len(vals); i++ {
			vals[i] = new(any)
		}
		if err := rows.Scan(vals...); err != nil {
			return sql.NullString{}, err
		}
	}
	return v, rows.Err()
}

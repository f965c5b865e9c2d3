// Package adapter defines the dialect-neutral introspection contract and the
// registry the per-dialect packages add themselves to.
package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sadopc/sqlschema/internal/schema"
)

var (
	ErrUnknownAdapter    = errors.New("unknown adapter")
	ErrUnsupportedDriver = errors.New("unsupported driver")
	ErrNotConnected      = errors.New("not connected to database")
)

// Queryer is the connection handle engines issue their metadata queries
// through. *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Engine introspects tables and columns for one dialect.
type Engine interface {
	// FetchTableList returns the table names in schemaName, or in every
	// visible schema when schemaName is empty.
	FetchTableList(ctx context.Context, schemaName string) ([]string, error)

	// FetchTableCols describes the columns of spec, which is either "table"
	// or "schema.table". A table that does not exist yields an empty map.
	FetchTableCols(ctx context.Context, spec string) (*schema.ColumnMap, error)

	QuoteName(name string) string
	ColumnFactory() schema.ColumnFactory
}

// DefaultNormalizer turns a dialect's raw default representation into a
// literal or nil.
type DefaultNormalizer interface {
	NormalizeDefault(raw sql.NullString, typ string, nullable bool) any
}

// Options configures an engine.
type Options struct {
	// Factory builds every column. Nil means schema.Factory{}.
	Factory schema.ColumnFactory
	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// ColumnFactory returns the configured factory or the default one.
func (o Options) ColumnFactory() schema.ColumnFactory {
	if o.Factory == nil {
		return schema.Factory{}
	}
	return o.Factory
}

// Log returns the configured logger tagged with the adapter name.
func (o Options) Log(adapterName string) *slog.Logger {
	l := o.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("adapter", adapterName)
}

// OpenOptions configures how an adapter opens a connection.
type OpenOptions struct {
	// Driver selects among the drivers an adapter supports. Empty picks the
	// adapter's default.
	Driver string
}

// Adapter opens connections and builds engines for one dialect.
type Adapter interface {
	Name() string
	DefaultPort() int
	Quoter() schema.Quoter
	Open(ctx context.Context, dsn string, opts OpenOptions) (*sql.DB, error)
	NewEngine(ctx context.Context, q Queryer, opts Options) (Engine, error)
}

// Registry holds registered adapters by name.
var Registry = map[string]Adapter{}

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	Registry[a.Name()] = a
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	a, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
	return a, nil
}

// Names returns the registered adapter names, sorted.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connect opens a connection with the named adapter and builds its engine.
// The caller owns the returned *sql.DB.
func Connect(ctx context.Context, name, dsn string, open OpenOptions, opts Options) (*sql.DB, Engine, error) {
	a, err := Lookup(name)
	if err != nil {
		return nil, nil, err
	}

	db, err := a.Open(ctx, dsn, open)
	if err != nil {
		return nil, nil, err
	}

	eng, err := a.NewEngine(ctx, db, opts)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, eng, nil
}

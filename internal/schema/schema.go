// Package schema holds the dialect-neutral column model produced by the
// introspection engines, together with the small pure helpers they share:
// the type-spec parser, the identifier quoter and the column factory.
package schema

import (
	"encoding/json"
	"iter"
	"reflect"
)

// Column describes one table column after normalization.
//
// Size and Scale are nil when the type carries no parenthesized qualifier;
// Scale is only meaningful when Size is set. Default is nil when the column
// has no literal default, otherwise the literal as reported by the database
// (a string for every dialect in this module).
type Column struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	Size          *int   `json:"size" yaml:"size"`
	Scale         *int   `json:"scale" yaml:"scale"`
	NotNull       bool   `json:"notnull" yaml:"notnull"`
	Default       any    `json:"default" yaml:"default"`
	AutoIncrement bool   `json:"autoincrement" yaml:"autoincrement"`
	Primary       bool   `json:"primary" yaml:"primary"`
}

// Table pairs a table name with its columns.
type Table struct {
	Name    string     `json:"name" yaml:"name"`
	Columns *ColumnMap `json:"columns" yaml:"columns"`
}

// ColumnMap maps column names to columns, preserving the order in which the
// database reported them.
type ColumnMap struct {
	names []string
	cols  map[string]Column
}

// NewColumnMap returns an empty ColumnMap.
func NewColumnMap() *ColumnMap {
	return &ColumnMap{cols: make(map[string]Column)}
}

// Add appends col. Adding a name that is already present replaces the stored
// column but keeps its original position. The zero ColumnMap is ready to use.
func (m *ColumnMap) Add(col Column) {
	if m.cols == nil {
		m.cols = make(map[string]Column)
	}
	if _, ok := m.cols[col.Name]; !ok {
		m.names = append(m.names, col.Name)
	}
	m.cols[col.Name] = col
}

// Get returns the column called name.
func (m *ColumnMap) Get(name string) (Column, bool) {
	if m == nil {
		return Column{}, false
	}
	c, ok := m.cols[name]
	return c, ok
}

// Len returns the number of columns.
func (m *ColumnMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the column names in declaration order.
func (m *ColumnMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Columns returns the columns in declaration order.
func (m *ColumnMap) Columns() []Column {
	if m == nil {
		return nil
	}
	out := make([]Column, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.cols[name])
	}
	return out
}

// All iterates over name/column pairs in declaration order.
func (m *ColumnMap) All() iter.Seq2[string, Column] {
	return func(yield func(string, Column) bool) {
		if m == nil {
			return
		}
		for _, name := range m.names {
			if !yield(name, m.cols[name]) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold structurally equal columns in the
// same order.
func (m *ColumnMap) Equal(other *ColumnMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, name := range m.Names() {
		if other.names[i] != name {
			return false
		}
		if !reflect.DeepEqual(m.cols[name], other.cols[name]) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as an ordered array of columns.
func (m *ColumnMap) MarshalJSON() ([]byte, error) {
	cols := m.Columns()
	if cols == nil {
		cols = []Column{}
	}
	return json.Marshal(cols)
}

// MarshalYAML encodes the map as an ordered sequence of columns.
func (m *ColumnMap) MarshalYAML() (any, error) {
	cols := m.Columns()
	if cols == nil {
		cols = []Column{}
	}
	return cols, nil
}

// Package render prints introspection results as styled tables, JSON or
// YAML, and highlights traced SQL.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/sqlschema/internal/schema"
	"github.com/sadopc/sqlschema/internal/theme"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var columnHeaders = []string{"#", "Name", "Type", "Size", "Scale", "Null", "Default", "Key", "Extra"}

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format string
	th     *theme.Theme
}

// New returns a Renderer. A nil theme renders tables without styling.
func New(w io.Writer, format string, th *theme.Theme) (*Renderer, error) {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("render: unknown format %q", format)
	}
	if th == nil {
		th = theme.Plain()
	}
	return &Renderer{w: w, format: format, th: th}, nil
}

// Tables prints a table list.
func (r *Renderer) Tables(tables []string) error {
	if tables == nil {
		tables = []string{}
	}
	switch r.format {
	case FormatJSON:
		return r.json(tables)
	case FormatYAML:
		return r.yaml(tables)
	}

	if len(tables) == 0 {
		_, err := fmt.Fprintln(r.w, r.th.MutedText.Render("(no tables)"))
		return err
	}
	for _, name := range tables {
		if _, err := fmt.Fprintln(r.w, r.th.TableName.Render(name)); err != nil {
			return err
		}
	}
	return nil
}

// Columns prints the columns of one table.
func (r *Renderer) Columns(t schema.Table) error {
	switch r.format {
	case FormatJSON:
		return r.json(t)
	case FormatYAML:
		return r.yaml(t)
	}
	return r.columnTable(t)
}

// Dump prints several tables in the given order.
func (r *Renderer) Dump(tables []schema.Table) error {
	if tables == nil {
		tables = []schema.Table{}
	}
	switch r.format {
	case FormatJSON:
		return r.json(tables)
	case FormatYAML:
		return r.yaml(tables)
	}

	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		if err := r.columnTable(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) columnTable(t schema.Table) error {
	if _, err := fmt.Fprintln(r.w, r.th.TableName.Render(t.Name)); err != nil {
		return err
	}

	var cols []schema.Column
	if t.Columns != nil {
		cols = t.Columns.Columns()
	}
	if len(cols) == 0 {
		_, err := fmt.Fprintln(r.w, r.th.MutedText.Render("(no columns)"))
		return err
	}

	rows := make([][]string, len(cols))
	for i, c := range cols {
		rows[i] = ColumnRow(i+1, c)
	}

	th := r.th
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(th.Border).
		Headers(columnHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.Header
			}
			style := th.Cell
			switch col {
			case 1:
				style = th.ColumnName
			case 2:
				style = th.ColumnType
			case 6:
				if row < len(rows) && rows[row][col] == "NULL" {
					style = th.Null
				}
			case 7:
				style = th.Primary
			case 8:
				style = th.AutoInc
			}
			return style.PaddingLeft(1).PaddingRight(1)
		})

	_, err := fmt.Fprintln(r.w, tbl.String())
	return err
}

// ColumnRow formats a column as table cells: position, name, type, size,
// scale, nullability, default, key and extra.
func ColumnRow(pos int, c schema.Column) []string {
	null := "YES"
	if c.NotNull {
		null = "NO"
	}
	key := ""
	if c.Primary {
		key = "PRI"
	}
	extra := ""
	if c.AutoIncrement {
		extra = "auto_increment"
	}
	return []string{
		strconv.Itoa(pos),
		c.Name,
		c.Type,
		optional(c.Size),
		optional(c.Scale),
		null,
		formatDefault(c.Default),
		key,
		extra,
	}
}

func optional(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatDefault(v any) string {
	switch d := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.ReplaceAll(d, "\n", `\n`)
	default:
		return fmt.Sprint(d)
	}
}

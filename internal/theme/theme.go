// Package theme provides the lipgloss styles used for sqlschema's terminal
// output. Every printed element references a style held in a Theme so the
// look can be swapped from configuration.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme holds lipgloss.Style values for every output element.
type Theme struct {
	Name string

	// Tables
	Border lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style

	// Schema elements
	TableName  lipgloss.Style
	ColumnName lipgloss.Style
	ColumnType lipgloss.Style
	Null       lipgloss.Style
	Primary    lipgloss.Style
	AutoInc    lipgloss.Style

	// SQL syntax highlighting for traced statements
	SQLKeyword  lipgloss.Style
	SQLString   lipgloss.Style
	SQLNumber   lipgloss.Style
	SQLComment  lipgloss.Style
	SQLOperator lipgloss.Style
	SQLFunction lipgloss.Style
	SQLType     lipgloss.Style

	// General
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	MutedText   lipgloss.Style
}

// palette lists the colors a theme is built from.
type palette struct {
	border, header, text, table, column, typ, muted, key, accent, err, warn string
	keyword, str, number string
}

func build(name string, p palette) *Theme {
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Theme{
		Name: name,

		Border: color(p.border),
		Header: color(p.header).Bold(true).PaddingLeft(1).PaddingRight(1),
		Cell:   color(p.text).PaddingLeft(1).PaddingRight(1),

		TableName:  color(p.table).Bold(true),
		ColumnName: color(p.column),
		ColumnType: color(p.typ).Italic(true),
		Null:       color(p.muted).Italic(true),
		Primary:    color(p.key).Bold(true),
		AutoInc:    color(p.accent),

		SQLKeyword:  color(p.keyword).Bold(true),
		SQLString:   color(p.str),
		SQLNumber:   color(p.number),
		SQLComment:  color(p.muted).Italic(true),
		SQLOperator: color(p.text),
		SQLFunction: color(p.key),
		SQLType:     color(p.table).Italic(true),

		ErrorText:   color(p.err).Bold(true),
		WarningText: color(p.warn),
		MutedText:   color(p.muted),
	}
}

// newPlainTheme builds a theme without any styling, used when color is off.
func newPlainTheme() *Theme {
	plain := lipgloss.NewStyle()
	return &Theme{
		Name:        "plain",
		Border:      plain,
		Header:      plain.PaddingLeft(1).PaddingRight(1),
		Cell:        plain.PaddingLeft(1).PaddingRight(1),
		TableName:   plain,
		ColumnName:  plain,
		ColumnType:  plain,
		Null:        plain,
		Primary:     plain,
		AutoInc:     plain,
		SQLKeyword:  plain,
		SQLString:   plain,
		SQLNumber:   plain,
		SQLComment:  plain,
		SQLOperator: plain,
		SQLFunction: plain,
		SQLType:     plain,
		ErrorText:   plain,
		WarningText: plain,
		MutedText:   plain,
	}
}

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": build("default", palette{
		border: "#3C3C3C", header: "#569CD6", text: "#D4D4D4", table: "#4EC9B0",
		column: "#9CDCFE", typ: "#808080", muted: "#6A9955", key: "#DCDCAA",
		accent: "#C586C0", err: "#F44747", warn: "#CE9178",
		keyword: "#569CD6", str: "#CE9178", number: "#B5CEA8",
	}),
	"light": build("light", palette{
		border: "#D0D0D0", header: "#0000FF", text: "#1E1E1E", table: "#267F99",
		column: "#001080", typ: "#6E6E6E", muted: "#008000", key: "#795E26",
		accent: "#AF00DB", err: "#CD3131", warn: "#A31515",
		keyword: "#0000FF", str: "#A31515", number: "#098658",
	}),
	"monokai": build("monokai", palette{
		border: "#49483E", header: "#A6E22E", text: "#F8F8F2", table: "#66D9EF",
		column: "#66D9EF", typ: "#75715E", muted: "#75715E", key: "#A6E22E",
		accent: "#AE81FF", err: "#F92672", warn: "#E6DB74",
		keyword: "#F92672", str: "#E6DB74", number: "#AE81FF",
	}),
	"plain": newPlainTheme(),
}

// Default returns the default dark theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}

// Plain returns the unstyled theme.
func Plain() *Theme {
	return Themes["plain"]
}

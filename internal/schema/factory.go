package schema

// RawColumn carries normalized column fields before they become a Column.
// Size and Scale are still strings as the metadata source reported them.
type RawColumn struct {
	Name          string
	Type          string
	Size          string
	Scale         string
	NotNull       bool
	Default       any
	AutoIncrement bool
	Primary       bool
}

// ColumnFactory builds columns. Every engine funnels its rows through one,
// so tests can substitute a recording or decorating implementation.
type ColumnFactory interface {
	NewColumn(raw RawColumn) Column
}

// ColumnFactoryFunc adapts a function to ColumnFactory.
type ColumnFactoryFunc func(raw RawColumn) Column

// NewColumn calls f(raw).
func (f ColumnFactoryFunc) NewColumn(raw RawColumn) Column { return f(raw) }

// Factory is the default ColumnFactory.
type Factory struct{}

// NewColumn converts size and scale to integers and returns the column.
func (Factory) NewColumn(raw RawColumn) Column {
	return Column{
		Name:          raw.Name,
		Type:          raw.Type,
		Size:          optionalInt(raw.Size),
		Scale:         optionalInt(raw.Scale),
		NotNull:       raw.NotNull,
		Default:       raw.Default,
		AutoIncrement: raw.AutoIncrement,
		Primary:       raw.Primary,
	}
}

// optionalInt reads the leading decimal digits of s. It returns nil for an
// empty string, for "0" and for strings that do not start with a digit.
func optionalInt(s string) *int {
	if s == "" || s == "0" {
		return nil
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return nil
	}
	return &n
}

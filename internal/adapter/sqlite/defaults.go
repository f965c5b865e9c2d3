package sqlite

import (
	"database/sql"
	"strings"
)

// Defaults normalizes PRAGMA table_info dflt_value text.
type Defaults struct{}

// NormalizeDefault strips one layer of single quotes from a literal.
// Keyword defaults still come back as text here; IsKeywordDefault settles
// those once the whole table is known.
func (Defaults) NormalizeDefault(raw sql.NullString, _ string, _ bool) any {
	if !raw.Valid || strings.EqualFold(raw.String, "NULL") {
		return nil
	}
	v := raw.String
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	return v
}

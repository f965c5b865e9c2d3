package sqlserver

import "database/sql"

// Defaults passes sp_columns COLUMN_DEF through unchanged.
type Defaults struct{}

func (Defaults) NormalizeDefault(raw sql.NullString, _ string, _ bool) any {
	if !raw.Valid {
		return nil
	}
	return raw.String
}

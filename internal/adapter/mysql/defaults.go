package mysql

import (
	"database/sql"
	"strings"
)

// Defaults normalizes SHOW COLUMNS default values.
type Defaults struct {
	MariaDB bool
}

// NormalizeDefault returns nil for NULL and CURRENT_TIMESTAMP defaults and
// the raw literal otherwise. MariaDB reports quoted literals for some types
// and a literal NULL for nullable columns; both are folded back.
func (d Defaults) NormalizeDefault(raw sql.NullString, typ string, nullable bool) any {
	if !raw.Valid {
		return nil
	}
	v := raw.String

	if d.MariaDB && nullable && v == "NULL" {
		return nil
	}

	switch strings.ToUpper(v) {
	case "NULL", "CURRENT_TIMESTAMP":
		return nil
	case "CURRENT_TIMESTAMP()":
		if d.MariaDB {
			return nil
		}
	}

	if d.MariaDB && v == "''" {
		switch strings.ToLower(typ) {
		case "char", "varchar", "text":
			return ""
		}
	}
	return v
}

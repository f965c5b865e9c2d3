package postgres

import (
	"database/sql"
	"strconv"
	"strings"
)

// Defaults normalizes information_schema column_default expressions.
type Defaults struct{}

// NormalizeDefault keeps numeric literals and unwraps quoted literals with
// a type cast ('abc'::character varying becomes abc). Everything else,
// functions and keywords included, is nil.
func (Defaults) NormalizeDefault(raw sql.NullString, _ string, _ bool) any {
	if !raw.Valid || strings.EqualFold(raw.String, "NULL") {
		return nil
	}
	v := raw.String

	if isNumeric(v) {
		return v
	}

	if v != "" && (v[0] == '\'' || v[0] == '"') {
		pos := strings.LastIndex(v, "::")
		if pos < 0 {
			return nil
		}
		if pos < 2 {
			return ""
		}
		return v[1 : pos-1]
	}
	return nil
}

// isNumeric accepts plain decimal literals with optional sign, fraction
// and exponent, ignoring surrounding whitespace.
func isNumeric(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, r := range v {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return false
		}
	}
	_, err := strconv.ParseFloat(v, 64)
	return err == nil
}

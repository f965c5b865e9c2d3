package schema

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\w]`)

// SplitName splits a table spec on its first dot. Without a dot the schema
// is empty and the whole spec is the table name.
func SplitName(spec string) (schemaName, table string) {
	if pos := strings.IndexByte(spec, '.'); pos >= 0 {
		return spec[:pos], spec[pos+1:]
	}
	return "", spec
}

// Quoter wraps identifier segments in a dialect's quote characters.
type Quoter struct {
	Prefix string
	Suffix string
}

var (
	// DoubleQuote is the ANSI quoter used by PostgreSQL and SQLite.
	DoubleQuote = Quoter{Prefix: `"`, Suffix: `"`}
	// Backtick is the MySQL/MariaDB quoter.
	Backtick = Quoter{Prefix: "`", Suffix: "`"}
	// Bracket is the SQL Server quoter.
	Bracket = Quoter{Prefix: "[", Suffix: "]"}
)

// QuoteName quotes a table, column or alias name.
//
// "a.b" becomes "a"."b"; the name is split on its rightmost dot and each
// side is quoted recursively. "t AS x" and "t x" quote both sides of the
// alias separately.
func (q Quoter) QuoteName(name string) string {
	name = strings.TrimSpace(name)

	if pos := indexAlias(name); pos >= 0 {
		return q.QuoteName(name[:pos]) + " AS " + q.QuoteName(name[pos+4:])
	}

	if pos := strings.LastIndexByte(name, ' '); pos >= 0 {
		return q.QuoteName(name[:pos]) + " " + q.QuoteName(name[pos+1:])
	}

	if pos := strings.LastIndexByte(name, '.'); pos >= 0 {
		return q.QuoteName(name[:pos]) + "." + q.QuoteName(name[pos+1:])
	}

	return q.Prefix + name + q.Suffix
}

// indexAlias returns the position of a case-insensitive " AS " in name, or -1.
func indexAlias(name string) int {
	for i := 0; i+4 <= len(name); i++ {
		if strings.EqualFold(name[i:i+4], " AS ") {
			return i
		}
	}
	return -1
}

// StripNonWord removes every character outside [0-9A-Za-z_]. Engines apply
// it to names they must interpolate into statements that cannot take
// placeholders.
func StripNonWord(name string) string {
	return nonWord.ReplaceAllString(name, "")
}

package sqlite

import (
	"regexp"
	"strings"
)

// ColumnDef is a column name and its parsed type, as used to locate the
// column's definition in CREATE TABLE text.
type ColumnDef struct {
	Name string
	Type string
}

// IsKeywordDefault reports whether the definition of cols[i] in create sets
// DEFAULT CURRENT_DATE, CURRENT_TIME or CURRENT_TIMESTAMP. PRAGMA
// table_info cannot tell those apart from string literals.
//
// Unless cols[i] is the last column, the match must end at the next
// column's definition so a later column's keyword default is not
// attributed to this one.
func IsKeywordDefault(create string, cols []ColumnDef, i int) bool {
	if i < 0 || i >= len(cols) {
		return false
	}

	pattern := defPattern(cols[i]) + `.*\s+DEFAULT\s+CURRENT_`
	if i < len(cols)-1 {
		pattern += `.*` + defPattern(cols[i+1])
	}
	return match(`(?is)`+pattern, create)
}

const autoincTemplate = `INTEGER (?:NULL |NOT NULL )?PRIMARY KEY AUTOINCREMENT`

// IsAutoIncrement reports whether create declares name as
// INTEGER PRIMARY KEY AUTOINCREMENT.
func IsAutoIncrement(create, name string) bool {
	return match(`(?i)`+namePattern(name)+`\s+`+spaces(autoincTemplate), create)
}

// namePattern matches name bare or in any of SQLite's identifier quotes.
func namePattern(name string) string {
	n := regexp.QuoteMeta(name)
	bare := n
	if name != "" && isWord(name[0]) {
		bare = `\b` + n
	}
	return `(?:"` + n + `"|'` + n + `'|` + "`" + n + "`" + `|\[` + n + `\]|` + bare + `)`
}

func defPattern(c ColumnDef) string {
	p := namePattern(c.Name)
	if c.Type != "" {
		p += `\s+` + spaces(regexp.QuoteMeta(c.Type))
	}
	return p
}

// spaces lets each literal space match any run of whitespace.
func spaces(p string) string {
	return strings.ReplaceAll(p, " ", `\s+`)
}

func isWord(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func match(pattern, s string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

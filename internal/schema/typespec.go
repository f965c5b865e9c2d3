package schema

import "strings"

// ParseTypeSpec splits a raw column type such as "VARCHAR(255)" or
// "NUMERIC(10,2)" into its lower-cased type name, size and scale. An empty
// size or scale means the type did not carry one.
//
// No validation is done; malformed input degrades to a best-effort split.
// Trailing modifiers stay attached to the last part ("int(10) unsigned"
// yields size "10) unsigned"), which the column factory tolerates.
func ParseTypeSpec(spec string) (typ, size, scale string) {
	spec = strings.ToLower(spec)

	pos := strings.IndexByte(spec, '(')
	if pos < 0 {
		return spec, "", ""
	}

	typ = spec[:pos]
	size = strings.Trim(spec[pos:], "()")

	if comma := strings.IndexByte(size, ','); comma >= 0 {
		scale = size[comma+1:]
		size = size[:comma]
	}
	return typ, size, scale
}

// Package suggest offers "did you mean" table names for a lookup that
// returned no columns.
package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultLimit is the number of suggestions the CLI prints.
const DefaultLimit = 5

// lowerNames is a fuzzy.Source over lower-cased names.
type lowerNames []string

func (l lowerNames) String(i int) string { return l[i] }
func (l lowerNames) Len() int            { return len(l) }

// Tables returns up to limit names from tables that fuzzily match name,
// best match first. Matching ignores case and any schema qualifier on name
// when the candidates are unqualified. The original spelling is returned.
func Tables(name string, tables []string, limit int) []string {
	if name == "" || len(tables) == 0 || limit <= 0 {
		return nil
	}

	pattern := strings.ToLower(name)
	if !anyQualified(tables) {
		if pos := strings.LastIndexByte(pattern, '.'); pos >= 0 {
			pattern = pattern[pos+1:]
		}
	}

	lower := make(lowerNames, len(tables))
	for i, t := range tables {
		lower[i] = strings.ToLower(t)
	}

	matches := fuzzy.FindFrom(pattern, lower)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if lower[m.Index] == pattern {
			continue
		}
		out = append(out, tables[m.Index])
		if len(out) == limit {
			break
		}
	}
	return out
}

func anyQualified(tables []string) bool {
	for _, t := range tables {
		if strings.Contains(t, ".") {
			return true
		}
	}
	return false
}

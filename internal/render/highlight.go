package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sqlschema/internal/theme"
)

// lexerAliases maps adapter names to chroma lexer aliases.
var lexerAliases = map[string]string{
	"mysql":     "mysql",
	"postgres":  "postgresql",
	"sqlserver": "tsql",
	"sqlite":    "sql",
}

// Highlighter tokenises SQL text using chroma and renders it with lipgloss
// styles from a theme.
type Highlighter struct {
	lexer chroma.Lexer
}

// NewHighlighter returns a Highlighter using the lexer for the named
// adapter's dialect, falling back to the generic SQL lexer.
func NewHighlighter(adapterName string) *Highlighter {
	var l chroma.Lexer
	if alias, ok := lexerAliases[adapterName]; ok {
		l = lexers.Get(alias)
	}
	if l == nil {
		l = lexers.Get("sql")
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	return &Highlighter{lexer: l}
}

// Highlight tokenises sql and styles each token from th. Newlines are
// preserved so multi-line statements render correctly.
func (h *Highlighter) Highlight(sql string, th *theme.Theme) string {
	if th == nil {
		return sql
	}

	iter, err := h.lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) * 2)

	for _, tok := range iter.Tokens() {
		value := tok.Value
		if value == "" {
			continue
		}

		style, ok := styleFor(tok.Type, th)
		if !ok {
			b.WriteString(value)
			continue
		}

		// A newline is always emitted unstyled.
		lines := strings.Split(value, "\n")
		for i, line := range lines {
			if line != "" {
				b.WriteString(style.Render(line))
			}
			if i < len(lines)-1 {
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// styleFor maps a chroma token type to a theme style. The second return
// value is false when the token passes through unstyled.
func styleFor(tt chroma.TokenType, th *theme.Theme) (lipgloss.Style, bool) {
	switch {
	case tt == chroma.KeywordType:
		return th.SQLType, true
	case tt == chroma.NameFunction || tt == chroma.NameBuiltin:
		return th.SQLFunction, true
	case tt.InCategory(chroma.Keyword):
		return th.SQLKeyword, true
	case tt.InSubCategory(chroma.LiteralString):
		return th.SQLString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return th.SQLNumber, true
	case tt.InCategory(chroma.Comment):
		return th.SQLComment, true
	case tt.InCategory(chroma.Operator):
		return th.SQLOperator, true
	default:
		return lipgloss.Style{}, false
	}
}

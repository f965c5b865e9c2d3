package audit

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// user:pass@tcp(host) and user@unix(/sock) as go-sql-driver/mysql writes them.
	reDriverCreds = regexp.MustCompile(`^.+@(tcp|unix)\(`)
	// password=... in libpq keyword strings, ADO strings and URL queries.
	reSecret = regexp.MustCompile(`(?i)\b(password|pwd)(\s*=\s*)[^\s;&]+`)
)

// SanitizeDSN removes credentials from a connection string so it can be
// written to logs.
func SanitizeDSN(dsn string) string {
	if scheme, _, ok := strings.Cut(dsn, "://"); ok && scheme != "" && !strings.ContainsAny(scheme, "@:/(") {
		u, err := url.Parse(dsn)
		if err != nil {
			return scheme + "://***"
		}
		if u.User != nil {
			u.User = url.User("***")
		}
		dsn = u.String()
	} else {
		dsn = reDriverCreds.ReplaceAllString(dsn, "***@${1}(")
	}
	return reSecret.ReplaceAllString(dsn, "${1}${2}***")
}

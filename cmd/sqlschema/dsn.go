package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sadopc/sqlschema/internal/audit"
	"github.com/sadopc/sqlschema/internal/config"
)

func detectAdapter(dsn string) string {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "mysql://"):
		return "mysql"
	case strings.HasPrefix(lower, "sqlserver://"):
		return "sqlserver"
	case strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:"):
		return "sqlite"
	case lower == ":memory:":
		return "sqlite"
	case strings.HasSuffix(lower, ".db") || strings.HasSuffix(lower, ".sqlite") || strings.HasSuffix(lower, ".sqlite3"):
		return "sqlite"
	case strings.Contains(lower, "@tcp("):
		return "mysql"
	case strings.Contains(lower, "server=") && strings.Contains(lower, ";"):
		return "sqlserver"
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return "postgres"
	}
	// Default: try as PostgreSQL DSN
	if strings.Contains(dsn, "@") {
		return "postgres"
	}
	return ""
}

func buildDSN(adapterName, host string, port int, user, password, database, file string) string {
	if host == "" {
		host = "localhost"
	}

	switch adapterName {
	case "postgres":
		u := &url.URL{
			Scheme: "postgres",
			Host:   host,
		}
		if user != "" {
			if password != "" {
				u.User = url.UserPassword(user, password)
			} else {
				u.User = url.User(user)
			}
		}
		if port > 0 {
			u.Host = fmt.Sprintf("%s:%d", host, port)
		}
		if database != "" {
			u.Path = "/" + database
		}
		return u.String()

	case "sqlserver":
		u := &url.URL{
			Scheme: "sqlserver",
			Host:   host,
		}
		if user != "" {
			if password != "" {
				u.User = url.UserPassword(user, password)
			} else {
				u.User = url.User(user)
			}
		}
		if port > 0 {
			u.Host = fmt.Sprintf("%s:%d", host, port)
		}
		if database != "" {
			u.RawQuery = url.Values{"database": {database}}.Encode()
		}
		return u.String()

	case "mysql":
		// go-sql-driver format: user:pass@tcp(host:port)/db
		dsn := ""
		if user != "" {
			dsn += user
			if password != "" {
				dsn += ":" + password
			}
			dsn += "@"
		}
		p := port
		if p == 0 {
			p = 3306
		}
		dsn += fmt.Sprintf("tcp(%s:%d)", host, p)
		dsn += "/" + database
		return dsn

	case "sqlite":
		if file != "" {
			return file
		}
		if database != "" {
			return database
		}
		return ":memory:"
	}
	return ""
}

// target identifies what to connect to.
type target struct {
	adapter string
	driver  string
	dsn     string
	display string // credential-free description for logs
}

// resolveTarget picks the connection from, in order: a saved connection
// named by --connection, a DSN argument, or the individual flags. An
// explicit --adapter or --driver always wins.
func resolveTarget(f *globalFlags, cfg *config.Config, dsnArg string) (target, error) {
	var t target

	switch {
	case f.connection != "":
		sc, ok := cfg.Connection(f.connection)
		if !ok {
			return t, fmt.Errorf("no saved connection named %q", f.connection)
		}
		t = target{
			adapter: strings.ToLower(sc.Adapter),
			driver:  sc.Driver,
			dsn:     sc.BuildDSN(),
			display: sc.Name + " (" + sc.DisplayString() + ")",
		}
	case dsnArg != "":
		t = target{adapter: detectAdapter(dsnArg), dsn: dsnArg}
	}

	if f.adapter != "" {
		t.adapter = f.adapter
	}
	if f.driver != "" {
		t.driver = f.driver
	}

	if t.adapter == "" {
		return t, fmt.Errorf("cannot tell which adapter to use; pass --adapter")
	}
	if t.dsn == "" {
		t.dsn = buildDSN(t.adapter, f.host, f.port, f.user, f.password, f.database, f.file)
	}
	if t.dsn == "" {
		return t, fmt.Errorf("no connection details for adapter %q", t.adapter)
	}
	if t.display == "" {
		t.display = audit.SanitizeDSN(t.dsn)
	}
	return t, nil
}

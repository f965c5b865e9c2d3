package mysql

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/sadopc/sqlschema/internal/adapter"
)

// ServerInfo is what the version query learned about a server.
type ServerInfo struct {
	Version string
	MariaDB bool
}

// AtLeast reports whether the server version is major.minor or newer. An
// unparseable version reports false.
func (s ServerInfo) AtLeast(major, minor int) bool {
	maj, mnr, ok := parseVersion(s.Version)
	if !ok {
		return false
	}
	if maj != major {
		return maj > major
	}
	return mnr >= minor
}

func parseVersion(v string) (major, minor int, ok bool) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(leadingDigits(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}
	return s
}

// flavorCell holds one connection's flavor result.
type flavorCell struct {
	once sync.Once
	info ServerInfo
	err  error
}

// flavors caches flavor results per connection handle for the life of the
// process. Entries are keyed by the unwrapped Queryer, never by DSN.
var flavors = struct {
	sync.Mutex
	cells map[adapter.Queryer]*flavorCell
}{cells: make(map[adapter.Queryer]*flavorCell)}

// Identify returns the server info for q, querying the server only the first
// time a given handle is seen. Concurrent first calls share one query. A
// failed lookup is not cached. Handles that cannot be map keys, such as
// struct values holding a slice, are queried on every call.
func Identify(ctx context.Context, q adapter.Queryer) (ServerInfo, error) {
	key := adapter.Unwrap(q)
	if !cacheable(key) {
		return detect(ctx, q)
	}

	flavors.Lock()
	cell, ok := flavors.cells[key]
	if !ok {
		cell = &flavorCell{}
		flavors.cells[key] = cell
	}
	flavors.Unlock()

	cell.once.Do(func() {
		cell.info, cell.err = detect(ctx, q)
	})

	if cell.err != nil {
		flavors.Lock()
		if flavors.cells[key] == cell {
			delete(flavors.cells, key)
		}
		flavors.Unlock()
	}
	return cell.info, cell.err
}

// Forget drops the cached flavor for q. Call it when closing a handle whose
// address may be reused.
func Forget(q adapter.Queryer) {
	key := adapter.Unwrap(q)
	if !cacheable(key) {
		return
	}
	flavors.Lock()
	delete(flavors.cells, key)
	flavors.Unlock()
}

func cacheable(key adapter.Queryer) bool {
	return key != nil && reflect.ValueOf(key).Comparable()
}

func detect(ctx context.Context, q adapter.Queryer) (ServerInfo, error) {
	rows, err := adapter.FetchAll(ctx, q, "SHOW VARIABLES LIKE '%version%'")
	if err != nil {
		return ServerInfo{}, fmt.Errorf("mysql version query: %w", err)
	}

	var info ServerInfo
	for _, row := range rows {
		if row.Str("Variable_name") == "version" {
			info.Version = row.Str("Value")
			info.MariaDB = strings.Contains(strings.ToLower(info.Version), "maria")
			break
		}
	}
	return info, nil
}

// Package audit keeps a JSON Lines record of introspection runs.
package audit

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sadopc/sqlschema/internal/adapter"
)

// Entry is one audit record, written when a CLI command finishes.
type Entry struct {
	Timestamp     time.Time `json:"timestamp"`
	Command       string    `json:"command"`
	Target        string    `json:"target,omitempty"` // table or schema argument
	Adapter       string    `json:"adapter,omitempty"`
	Driver        string    `json:"driver,omitempty"`
	DSN           string    `json:"dsn,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	Queries       int64     `json:"queries"`
	FailedQueries int64     `json:"failed_queries,omitempty"`
	Tables        int       `json:"tables"`
	Columns       int       `json:"columns"`
	Error         string    `json:"error,omitempty"`
}

// Run accumulates the entry for one command while it executes.
type Run struct {
	started time.Time
	queries atomic.Int64
	failed  atomic.Int64

	mu    sync.Mutex
	entry Entry
}

// Start begins a run of command against target.
func Start(command, target string) *Run {
	now := time.Now()
	return &Run{
		started: now,
		entry:   Entry{Timestamp: now.UTC(), Command: command, Target: target},
	}
}

// Connected records where the run connected. Only the sanitized DSN is kept.
func (r *Run) Connected(adapterName, driver, dsn string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entry.Adapter = adapterName
	r.entry.Driver = driver
	r.entry.DSN = SanitizeDSN(dsn)
}

// Hook counts the queries issued through a traced handle.
func (r *Run) Hook() adapter.TraceHook {
	return func(ev adapter.TraceEvent) {
		r.queries.Add(1)
		if ev.Err != nil {
			r.failed.Add(1)
		}
	}
}

// Queries returns how many queries the run has issued so far.
func (r *Run) Queries() int64 { return r.queries.Load() }

// Finish stamps the outcome and returns the completed entry.
func (r *Run) Finish(tables, columns int, err error) Entry {
	r.mu.Lock()
	e := r.entry
	r.mu.Unlock()

	e.DurationMS = time.Since(r.started).Milliseconds()
	e.Queries = r.queries.Load()
	e.FailedQueries = r.failed.Load()
	e.Tables = tables
	e.Columns = columns
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

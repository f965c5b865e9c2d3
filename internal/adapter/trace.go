package adapter

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// TraceEvent describes one query issued through a traced Queryer.
type TraceEvent struct {
	Query    string
	Args     []any
	Duration time.Duration
	Err      error
}

// TraceHook receives trace events. Hooks may be called concurrently.
type TraceHook func(TraceEvent)

type tracedQueryer struct {
	q    Queryer
	hook TraceHook
}

// Trace wraps q so that every query is reported to hook after it returns.
// Unwrap recovers q, so identity-keyed caches see the underlying handle.
func Trace(q Queryer, hook TraceHook) Queryer {
	if hook == nil {
		return q
	}
	return &tracedQueryer{q: q, hook: hook}
}

func (t *tracedQueryer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.q.QueryContext(ctx, query, args...)
	t.hook(TraceEvent{Query: query, Args: args, Duration: time.Since(start), Err: err})
	return rows, err
}

func (t *tracedQueryer) Unwrap() Queryer { return t.q }

// Unwrap strips every tracing layer from q.
func Unwrap(q Queryer) Queryer {
	for {
		u, ok := q.(interface{ Unwrap() Queryer })
		if !ok {
			return q
		}
		q = u.Unwrap()
	}
}

// LogHook returns a TraceHook that logs each query at debug level.
func LogHook(logger *slog.Logger) TraceHook {
	return func(ev TraceEvent) {
		if ev.Err != nil {
			logger.Debug("query failed", "query", ev.Query, "args", ev.Args, "duration", ev.Duration, "error", ev.Err)
			return
		}
		logger.Debug("query", "query", ev.Query, "args", ev.Args, "duration", ev.Duration)
	}
}

// Hooks fans an event out to every non-nil hook.
func Hooks(hooks ...TraceHook) TraceHook {
	var live []TraceHook
	for _, h := range hooks {
		if h != nil {
			live = append(live, h)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(ev TraceEvent) {
		for _, h := range live {
			h(ev)
		}
	}
}

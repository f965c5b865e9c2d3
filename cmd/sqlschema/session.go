package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/adapter/mysql"
	"github.com/sadopc/sqlschema/internal/audit"
	"github.com/sadopc/sqlschema/internal/render"
)

// session is one open connection and its traced engine.
type session struct {
	target target
	db     *sql.DB
	engine adapter.Engine
}

// connect resolves the target, opens it and builds an engine whose queries
// are counted by run.
func (c *cli) connect(ctx context.Context, dsnArg string, run *audit.Run) (*session, error) {
	t, err := resolveTarget(&c.flags, c.cfg, dsnArg)
	if err != nil {
		return nil, err
	}
	run.Connected(t.adapter, t.driver, t.dsn)

	a, err := adapter.Lookup(t.adapter)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, availableAdapters())
	}

	s := &session{target: t}

	s.db, err = a.Open(ctx, t.dsn, adapter.OpenOptions{Driver: t.driver})
	if err != nil {
		return nil, err
	}

	hook := adapter.Hooks(
		run.Hook(),
		adapter.LogHook(c.logger),
		c.traceHook(t.adapter),
	)

	s.engine, err = a.NewEngine(ctx, adapter.Trace(s.db, hook), adapter.Options{Logger: c.logger})
	if err != nil {
		s.db.Close()
		return nil, err
	}

	c.logger.Debug("connected", "target", t.display, "driver", t.driver)
	return s, nil
}

// traceHook prints each query to stderr when --trace is set.
func (c *cli) traceHook(adapterName string) adapter.TraceHook {
	if !c.flags.trace {
		return nil
	}
	th := c.theme()
	hl := render.NewHighlighter(adapterName)
	return func(ev adapter.TraceEvent) {
		line := th.MutedText.Render(fmt.Sprintf("-- %s", ev.Duration.Round(time.Microsecond)))
		if len(ev.Args) > 0 {
			line += th.MutedText.Render(fmt.Sprintf(" args=%v", ev.Args))
		}
		fmt.Fprintln(c.errOut, line)
		fmt.Fprintln(c.errOut, hl.Highlight(ev.Query, th)+";")
		if ev.Err != nil {
			fmt.Fprintln(c.errOut, th.ErrorText.Render("-- error: "+ev.Err.Error()))
		}
	}
}

func (s *session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	if s.target.adapter == "mysql" {
		mysql.Forget(s.db)
	}
	return s.db.Close()
}

// record finishes run and appends it to the audit log when auditing is
// enabled.
func (c *cli) record(run *audit.Run, tables, columns int, runErr error) {
	e := run.Finish(tables, columns, runErr)
	c.logger.Debug("run finished", "command", e.Command, "queries", e.Queries, "duration_ms", e.DurationMS)

	if !c.cfg.Audit.Enabled {
		return
	}
	path, err := c.cfg.AuditPath()
	if err != nil {
		c.logger.Warn("audit path unavailable", "error", err)
		return
	}
	if err := audit.Append(path, c.cfg.Audit.MaxSizeMB, e); err != nil {
		c.logger.Warn("could not write audit log", "error", err)
	}
}

func availableAdapters() string {
	return strings.Join(adapter.Names(), ", ")
}

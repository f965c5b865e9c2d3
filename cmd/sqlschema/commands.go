package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/sqlschema/internal/adapter"
	"github.com/sadopc/sqlschema/internal/audit"
	"github.com/sadopc/sqlschema/internal/render"
	"github.com/sadopc/sqlschema/internal/schema"
	"github.com/sadopc/sqlschema/internal/suggest"
)

var errNoColumns = errors.New("table not found or has no columns")

func (c *cli) renderer() (*render.Renderer, error) {
	return render.New(c.out, c.cfg.Output.Format, c.theme())
}

// qualify prefixes table with schemaName unless it is already qualified.
func qualify(schemaName, table string) string {
	if schemaName == "" || strings.Contains(table, ".") {
		return table
	}
	return schemaName + "." + table
}

func newTablesCmd(c *cli) *cobra.Command {
	var schemaName string

	cmd := &cobra.Command{
		Use:   "tables [dsn]",
		Short: "List tables",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = c.runE(func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		var dsn string
		if len(args) == 1 {
			dsn = args[0]
		}

		var tables []string
		run := audit.Start("tables", schemaName)
		defer func() { c.record(run, len(tables), 0, err) }()

		s, err := c.connect(ctx, dsn, run)
		if err != nil {
			return err
		}
		defer s.Close()

		tables, err = s.engine.FetchTableList(ctx, schemaName)
		if err != nil {
			return err
		}

		r, err := c.renderer()
		if err != nil {
			return err
		}
		return r.Tables(tables)
	})

	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Only list tables in this schema or database")
	return cmd
}

func newColumnsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns [dsn] <table>",
		Short: "Describe the columns of a table",
		Long: `Describe the columns of a table. The table may be qualified as
schema.table. When nothing is found, similarly named tables are suggested.`,
		Args: cobra.RangeArgs(1, 2),
	}
	cmd.RunE = c.runE(func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		var dsn string
		table := args[len(args)-1]
		if len(args) == 2 {
			dsn = args[0]
		}

		var count int
		run := audit.Start("columns", table)
		defer func() { c.record(run, 1, count, err) }()

		s, err := c.connect(ctx, dsn, run)
		if err != nil {
			return err
		}
		defer s.Close()

		cols, err := s.engine.FetchTableCols(ctx, table)
		if err != nil {
			return err
		}
		count = cols.Len()

		if count == 0 {
			c.suggestTables(ctx, s.engine, table)
			return fmt.Errorf("%s: %w", table, errNoColumns)
		}

		r, err := c.renderer()
		if err != nil {
			return err
		}
		return r.Columns(schema.Table{Name: table, Columns: cols})
	})
	return cmd
}

// suggestTables prints close table names for a lookup that found nothing.
func (c *cli) suggestTables(ctx context.Context, eng adapter.Engine, table string) {
	schemaName, _ := schema.SplitName(table)
	tables, err := eng.FetchTableList(ctx, schemaName)
	if err != nil {
		c.logger.Debug("could not list tables for suggestions", "error", err)
		return
	}

	matches := suggest.Tables(table, tables, suggest.DefaultLimit)
	if len(matches) == 0 {
		return
	}

	th := c.theme()
	fmt.Fprintln(c.errOut, th.WarningText.Render("Did you mean:"))
	for _, m := range matches {
		fmt.Fprintln(c.errOut, "  "+th.TableName.Render(m))
	}
}

func newDumpCmd(c *cli) *cobra.Command {
	var (
		schemaName  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "dump [dsn]",
		Short: "Describe the columns of every table",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = c.runE(func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		var dsn string
		if len(args) == 1 {
			dsn = args[0]
		}

		limit := c.cfg.Dump.Concurrency
		if cmd.Flags().Changed("concurrency") {
			limit = concurrency
		}
		if limit < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", limit)
		}

		var tables []schema.Table
		run := audit.Start("dump", schemaName)
		defer func() {
			total := 0
			for _, t := range tables {
				total += t.Columns.Len()
			}
			c.record(run, len(tables), total, err)
		}()

		s, err := c.connect(ctx, dsn, run)
		if err != nil {
			return err
		}
		defer s.Close()

		tables, err = dumpTables(ctx, s.engine, schemaName, limit)
		if err != nil {
			return err
		}

		r, err := c.renderer()
		if err != nil {
			return err
		}
		return r.Dump(tables)
	})

	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Only dump tables in this schema or database")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Tables described in parallel (default from config)")
	return cmd
}

// dumpTables describes every table, at most limit at a time. The result
// keeps the order of the table list.
func dumpTables(ctx context.Context, eng adapter.Engine, schemaName string, limit int) ([]schema.Table, error) {
	names, err := eng.FetchTableList(ctx, schemaName)
	if err != nil {
		return nil, err
	}

	out := make([]schema.Table, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			cols, err := eng.FetchTableCols(gctx, qualify(schemaName, name))
			if err != nil {
				return err
			}
			out[i] = schema.Table{Name: name, Columns: cols}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func newQuoteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <name>",
		Short: "Quote an identifier for the selected adapter",
		Long: `Quote a table, column or alias name the way the selected adapter's
engine does, without connecting. "schema.table" and "t AS x" are split and
each part is quoted.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			name := c.flags.adapter
			if name == "" {
				return fmt.Errorf("quote needs --adapter (%s)", availableAdapters())
			}
			a, err := adapter.Lookup(name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, a.Quoter().QuoteName(args[0]))
			return err
		}),
	}
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.out, "sqlschema %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintln(c.out, "\nSupported adapters:")
			for _, name := range adapter.Names() {
				a := adapter.Registry[name]
				if port := a.DefaultPort(); port > 0 {
					fmt.Fprintf(c.out, "  - %s (default port %d)\n", name, port)
				} else {
					fmt.Fprintf(c.out, "  - %s\n", name)
				}
			}
			return nil
		}),
	}
}

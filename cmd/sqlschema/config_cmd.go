package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sadopc/sqlschema/internal/config"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(c), newConfigConnectionsCmd(c))
	return cmd
}

// configPath is the --config path, or the default location.
func (c *cli) configPath() (string, error) {
	if c.flags.config != "" {
		return c.flags.config, nil
	}
	return config.DefaultPath()
}

func newConfigInitCmd(c *cli) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = c.runE(func(cmd *cobra.Command, args []string) error {
		path, err := c.configPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Wrote %s\n", path)
		return nil
	})

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigConnectionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "connections",
		Short: "List saved connections without their credentials",
		Args:  cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			if len(c.cfg.Connections) == 0 {
				fmt.Fprintln(c.errOut, "No saved connections.")
				return nil
			}

			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			for _, sc := range c.cfg.Connections {
				fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.DisplayString())
			}
			return tw.Flush()
		}),
	}
}

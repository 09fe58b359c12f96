// Package cli implements hostctl, a command line client that runs host
// sources in-process from the hostlookup config.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hostlookup/internal/app"
	"hostlookup/internal/codec"
	"hostlookup/internal/config"
	"hostlookup/internal/domain"
	"hostlookup/internal/service"
)

// CLI holds the command dependencies
type CLI struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs

	configPath string
	verbose    bool
}

// New creates the CLI writing to the given streams
func New(stdout, stderr io.Writer, fs afero.Fs) *CLI {
	return &CLI{stdout: stdout, stderr: stderr, fs: fs}
}

// Run executes the command line and exits non-zero on failure
func (c *CLI) Run() {
	if err := c.Execute(os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(c.stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Execute runs the command tree with args
func (c *CLI) Execute(args []string) error {
	root := c.buildRootCommand()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	return root.ExecuteContext(context.Background())
}

func (c *CLI) buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hostctl",
		Short:         "hostctl - query host sources",
		Long:          "hostctl lists and searches the host sources configured for hostlookup.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file path (default: search standard locations)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log source activity to stderr")

	root.AddCommand(
		c.buildSourcesCommand(),
		c.buildListCommand(),
		c.buildInputCommand(),
		c.buildSearchCommand(),
		c.buildConfigCommand(),
	)
	return root
}

func (c *CLI) buildSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			t := c.newTable(table.Row{"Name", "Kind", "Description"})
			for _, info := range svc.Sources() {
				t.AppendRow(table.Row{info.Name, info.Kind, info.Description})
			}
			t.Render()
			return nil
		},
	}
}

func (c *CLI) buildListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [source]",
		Short: "List what can be searched in a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			list, err := svc.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			t := c.newTable(table.Row{"Key", "Value"})
			for _, e := range list.Entries() {
				t.AppendRow(table.Row{e.Key, e.Value})
			}
			t.Render()
			return nil
		},
	}
}

func (c *CLI) buildInputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "input [source]",
		Short: "Show the input a source search expects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}

			input, err := svc.Input(args[0])
			if err != nil {
				return err
			}
			if input == nil {
				fmt.Fprintf(c.stdout, "%s (free text)\n", domain.SearchParamField)
				return nil
			}
			for _, f := range input.Fields {
				req := ""
				if f.Required {
					req = " (required)"
				}
				fmt.Fprintf(c.stdout, "%s: %s%s\n", f.Name, f.Label, req)
			}
			return nil
		},
	}
}

func (c *CLI) buildSearchCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search [source|*] [srchparam]",
		Short: "Search a source, or every source with *",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := codec.ExporterFor(format)
			if err != nil {
				return err
			}

			svc, err := c.service()
			if err != nil {
				return err
			}

			hosts, err := svc.Search(cmd.Context(), args[0], domain.SearchInput{SrchParam: args[1]})
			if err != nil {
				if args[0] != service.AllSources || len(hosts) == 0 {
					return err
				}
				color.New(color.FgYellow).Fprintf(c.stderr, "Warning: %v\n", err)
			}

			return exporter.Export(hosts, c.stdout)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", fmt.Sprintf("output format %v", codec.ExportFormats()))
	return cmd
}

func (c *CLI) buildConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if exists, _ := afero.Exists(c.fs, path); exists && !force {
				return errors.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(c.fs, path); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = "(defaults)"
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrapf(err, "config %s", path)
			}
			fmt.Fprintf(c.stdout, "Config: %s\n%s\n", path, cfg.Summary())
			return nil
		},
	}

	cmd.AddCommand(initCmd, checkCmd)
	return cmd
}

func (c *CLI) newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func (c *CLI) loadConfig() (*config.Config, string, error) {
	if c.configPath != "" {
		return config.LoadFromPath(c.fs, c.configPath)
	}
	return config.Load(c.fs)
}

// service builds the host service from config. Saved searches are a server
// feature, so no repository is attached.
func (c *CLI) service() (*service.HostService, error) {
	cfg, path, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	log := zap.NewNop()
	if c.verbose {
		if log, err = app.NewLogger(config.LogConfig{Level: "debug", Development: true}); err != nil {
			return nil, err
		}
	}

	sources, err := app.BuildSources(cfg, c.fs, log)
	if err != nil {
		return nil, err
	}
	return service.NewHostService(sources.Registry, nil, nil, log), nil
}

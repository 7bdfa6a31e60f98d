// Package cli implements the sqlplay command tree.
package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vegasq/sqlplay/config"
	"github.com/vegasq/sqlplay/output"
	"github.com/vegasq/sqlplay/query"
	"github.com/vegasq/sqlplay/relation"
)

// RootOptions holds global flags and the state they resolve to.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool

	// Set by the root command before any subcommand runs.
	Config config.Config
	Logger *logrus.Logger
}

// NewRootCommand creates the root command for the sqlplay CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlplay",
		Short: "sqlplay - a SQL playground over two sample tables",
		Long: `Evaluate SELECT queries against the built-in users and orders tables.

Supports WHERE, one two-table JOIN, GROUP BY with HAVING, aggregates,
DISTINCT, ORDER BY and LIMIT. The tables can be exported as parquet and
parquet files can be inspected with the same renderers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to YAML config file")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "output format (table|json|csv), overrides config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log query evaluation at debug level")

	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewTablesCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// resolve loads the config file, applies flag overrides and builds the
// logger.
func (o *RootOptions) resolve(logOut io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.Verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}

	logger, err := cfg.NewLogger(logOut)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to set up logging", err)
	}

	o.Config = cfg
	o.Logger = logger
	return nil
}

// engine builds a query engine from the resolved configuration.
func (o *RootOptions) engine() *query.Engine {
	return query.NewEngine(o.Config.QueryOptions(), logrus.NewEntry(o.Logger))
}

// renderDiagnostic writes a lone {error} or {message} record to w.
func (o *RootOptions) renderDiagnostic(w io.Writer, rec relation.Record) error {
	if err := output.WriteDiagnostic(w, rec); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

// renderResult shows the outcome of one query: the records, the no-rows
// message, or the error as a diagnostic. A write failure is returned; the
// query error is not.
func (o *RootOptions) renderResult(w io.Writer, records []relation.Record, queryErr error) error {
	switch {
	case queryErr != nil:
		return o.renderDiagnostic(w, relation.ErrorRecord(queryErr.Error()))
	case len(records) == 0:
		return o.renderDiagnostic(w, relation.MessageRecord(relation.NoRowsMessage))
	}
	return o.render(w, records)
}

// render writes records to w in the configured format.
func (o *RootOptions) render(w io.Writer, records []relation.Record) error {
	f, err := output.New(o.Config.Format, w)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid format", err)
	}
	if err := output.Write(f, w, records); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

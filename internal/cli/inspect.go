package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/vegasq/sqlplay/reader"
	"github.com/vegasq/sqlplay/relation"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Schema bool
	Limit  int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <file.parquet|glob>",
		Short: "Render the rows or schema of parquet files",
		Long: `Read a parquet file and render its rows with the query renderers.

A glob pattern reads every matching file and adds a _file column naming the
source of each row. With --schema the column layout of the file (the first
match for a glob) is shown instead.

Example:
  sqlplay inspect out/users.parquet
  sqlplay inspect "out/*.parquet" --limit 2
  sqlplay inspect --schema out/orders.parquet`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := inspectFile(opts, args[0], cmd)
			if err != nil {
				return err
			}
			return opts.renderResult(cmd.OutOrStdout(), records, nil)
		},
	}

	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "show schema information instead of rows")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "limit number of rows (0 = unlimited)")

	return cmd
}

func inspectFile(opts *InspectOptions, pattern string, cmd *cobra.Command) ([]relation.Record, error) {
	if opts.Limit < 0 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("--limit must be non-negative, got %d", opts.Limit))
	}
	if opts.Schema && opts.Limit > 0 {
		return nil, NewExitError(ExitCommandError, "--schema and --limit cannot be used together")
	}

	if opts.Schema {
		path := pattern
		if reader.IsGlob(pattern) {
			matches, err := reader.Glob(pattern)
			if err != nil {
				return nil, WrapExitError(ExitCommandError, "failed to expand pattern", err)
			}
			path = matches[0]
			if len(matches) > 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "# Showing schema from: %s (%d files matched)\n", path, len(matches))
			}
		}
		records, err := reader.SchemaRecords(path)
		if err != nil {
			return nil, readError(path, err)
		}
		return records, nil
	}

	records, err := reader.ReadMultipleFiles(pattern)
	if err != nil {
		return nil, readError(pattern, err)
	}
	opts.Logger.WithField("pattern", pattern).WithField("rows", len(records)).Debug("read parquet")

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, nil
}

func readError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("file '%s' not found", path))
	}
	return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vegasq/sqlplay/relation"
)

// TablesOptions holds flags for the tables command.
type TablesOptions struct {
	*RootOptions
	Schema bool
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TablesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tables [name]",
		Short: "Show the sample tables",
		Long: `Print the contents of the users and orders tables, or of one of them.

With --schema the column names and types are printed instead.

Example:
  sqlplay tables
  sqlplay tables orders --format json
  sqlplay tables --schema`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTables(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "print column names and types")

	return cmd
}

func showTables(opts *TablesOptions, args []string, cmd *cobra.Command) error {
	rels := relation.All()
	if len(args) == 1 {
		rel, ok := relation.Lookup(args[0])
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("unknown table %q: only 'users' and 'orders' are available", args[0]))
		}
		rels = []*relation.Relation{rel}
	}

	w := cmd.OutOrStdout()
	for i, rel := range rels {
		if len(rels) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "# %s\n", rel.Name)
		}

		records := rel.Records
		if opts.Schema {
			records = schemaRecords(rel.Schema)
		}
		if err := opts.render(w, records); err != nil {
			return err
		}
	}
	return nil
}

func schemaRecords(schema relation.Schema) []relation.Record {
	records := make([]relation.Record, len(schema))
	for i, col := range schema {
		records[i] = relation.NewRecord("column", col.Name, "type", col.Type.String())
	}
	return records
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Evaluate one SELECT query",
		Long: `Evaluate a SELECT query and render the result.

Arguments are joined with spaces, so the query may be quoted as one
argument or not. Errors and empty results are printed as a single JSON
diagnostic record.

Example:
  sqlplay query "SELECT name, age FROM users WHERE age > 25 ORDER BY age DESC"
  sqlplay query --format csv "SELECT country, COUNT(*) FROM users GROUP BY country"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, queryErr := rootOpts.engine().Evaluate(strings.Join(args, " "))
			if err := rootOpts.renderResult(cmd.OutOrStdout(), records, queryErr); err != nil {
				return err
			}
			if queryErr != nil {
				return NewExitError(ExitFailure, queryErr.Error())
			}
			return nil
		},
	}
}

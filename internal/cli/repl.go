package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const replStartBuffer = 64 * 1024

// ReplOptions holds flags for the repl command.
type ReplOptions struct {
	*RootOptions
	Prompt string
}

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read queries from stdin, one per line",
		Long: `Read queries from standard input and evaluate each line on its own.

Blank lines are skipped and "exit" or "quit" ends the session. A failing
query prints its diagnostic and the session continues. The prompt is
written to stderr so stdout carries only results.

Example:
  sqlplay repl
  echo "select * from orders" | sqlplay repl --prompt "" --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "sqlplay> ", "prompt written to stderr before each line")

	return cmd
}

func runRepl(opts *ReplOptions, cmd *cobra.Command) error {
	engine := opts.engine()
	out := cmd.OutOrStdout()
	prompt := func() {
		if opts.Prompt != "" {
			fmt.Fprint(cmd.ErrOrStderr(), opts.Prompt)
		}
	}

	// lines longer than the query limit still reach the engine so it can
	// report them
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, replStartBuffer), opts.Config.MaxQueryLength+replStartBuffer)

	evaluated := 0
	prompt()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			prompt()
			continue
		case "exit", "quit":
			return nil
		}

		evaluated++
		opts.Logger.WithField("line", evaluated).Debug("evaluating repl input")
		records, queryErr := engine.Evaluate(line)
		if err := opts.renderResult(out, records, queryErr); err != nil {
			return err
		}
		prompt()
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return nil
}

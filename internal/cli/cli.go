// Package cli provides the Cobra command definitions for the formvars tool:
// render a template against a form and payload, print the mapped view of a
// submission, or look up a field's best alias. It exists for debugging
// templates and form definitions outside the host application.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formvars/pkg/engine"
	"github.com/goliatone/go-formvars/pkg/resolve"
)

// GlobalOptions carries flags shared by every subcommand.
type GlobalOptions struct {
	Verbose bool
	Trace   bool
}

// NewRootCommand builds the formvars root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	global := &GlobalOptions{}

	root := &cobra.Command{
		Use:   "formvars",
		Short: "Resolve form template variables from submission payloads",
		Long: `formvars renders {{variable}} templates against a form definition and a
submission payload, using the same resolution chain the application uses:
pre-mapped fields, direct keys, stable ids, author mappings, labels, semantic
roles, alias patterns, similarity, and common prefixes.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "log resolution diagnostics to stderr")
	root.PersistentFlags().BoolVar(&global.Trace, "trace", false, "print every resolution decision event to stderr")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(NewRenderCommand(global))
	root.AddCommand(NewMappingsCommand(global))
	root.AddCommand(NewResolveCommand(global))
	return root
}

// cmdContext is the base context for one-shot command execution.
func cmdContext() context.Context {
	return context.Background()
}

// engineOptions translates global flags into engine options.
func (g *GlobalOptions) engineOptions() ([]engine.Option, error) {
	var options []engine.Option
	if g.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("cli: build logger: %w", err)
		}
		options = append(options, engine.WithLogger(logger))
	}
	if g.Trace {
		options = append(options, engine.WithObserver(resolve.ObserverFunc(func(ev resolve.Event) {
			fmt.Fprintf(os.Stderr, "%s variable=%s strategy=%s batch=%d\n",
				ev.Kind, ev.Variable, ev.Strategy, ev.Batch)
		})))
	}
	return options, nil
}

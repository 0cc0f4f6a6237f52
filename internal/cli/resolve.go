package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formvars/pkg/engine"
	"github.com/goliatone/go-formvars/pkg/store"
)

// ResolveOptions contains the options for the resolve command.
type ResolveOptions struct {
	FormPath string
	FieldID  string
}

// NewResolveCommand creates the resolve command, which prints a field's best
// stable alias.
func NewResolveCommand(global *GlobalOptions) *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a field id to its best stable alias",
		Long: `Resolve maps a field id to the alias templates should reference: the
stable id when one is assigned, else the author mapping, else the camelCase
form of the label, else the id itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.FormPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.FieldID, "field", "", "field id to resolve")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func runResolve(global *GlobalOptions, opts *ResolveOptions) error {
	form, err := LoadForm(opts.FormPath)
	if err != nil {
		return err
	}

	options, err := global.engineOptions()
	if err != nil {
		return err
	}
	options = append(options, engine.WithFormStore(store.NewMemoryFormStore(form)))
	eng := engine.New(options...)

	fmt.Println(eng.ResolveOne(cmdContext(), form.ID, opts.FieldID))
	return nil
}

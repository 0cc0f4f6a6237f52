package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formvars/pkg/engine"
	"github.com/goliatone/go-formvars/pkg/store"
)

// MappingsOptions contains the options for the mappings command.
type MappingsOptions struct {
	FormPath    string
	PayloadPath string
}

// NewMappingsCommand creates the mappings command, which prints the flattened
// mapped view of a submission as JSON.
func NewMappingsCommand(global *GlobalOptions) *cobra.Command {
	opts := &MappingsOptions{}

	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Print the mapped view of a submission payload",
		Long: `Mappings prints the original payload keys plus every alias the engine can
derive from the form definition: stable ids, author mappings, camelCase
labels, and semantic roles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappings(global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.FormPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().StringVarP(&opts.PayloadPath, "payload", "p", "", "submission payload file (JSON)")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

func runMappings(global *GlobalOptions, opts *MappingsOptions) error {
	form, err := LoadForm(opts.FormPath)
	if err != nil {
		return err
	}
	payloadDoc, err := LoadPayload(opts.PayloadPath)
	if err != nil {
		return err
	}

	options, err := global.engineOptions()
	if err != nil {
		return err
	}
	options = append(options, engine.WithFormStore(store.NewMemoryFormStore(form)))
	eng := engine.New(options...)

	mapped := eng.ResolveAllMappings(cmdContext(), form.ID, payloadDoc)
	out, err := json.MarshalIndent(mapped, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: encode mappings: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formvars/pkg/engine"
	"github.com/goliatone/go-formvars/pkg/store"
	"github.com/goliatone/go-formvars/pkg/template"
)

// RenderOptions contains the options for the render command.
type RenderOptions struct {
	FormPath     string
	PayloadPath  string
	TemplatePath string
	TemplateText string
	OutputPath   string
	Interactive  bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand(global *GlobalOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template against a form and submission payload",
		Long: `Render tokenizes the template, resolves every {{variable}} through the
resolution chain, and prints the substituted result.

Examples:
  formvars render --form form.json --payload payload.json --template email.txt
  formvars render --form form.yaml --text 'Hello {{firstName}}' --payload p.json
  formvars render --form form.json --text 'Hi {{name}}' --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.FormPath, "form", "f", "", "form definition file (JSON or YAML)")
	cmd.Flags().StringVarP(&opts.PayloadPath, "payload", "p", "", "submission payload file (JSON)")
	cmd.Flags().StringVarP(&opts.TemplatePath, "template", "t", "", "template file")
	cmd.Flags().StringVar(&opts.TemplateText, "text", "", "inline template text")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "prompt for variables the payload cannot resolve")
	_ = cmd.MarkFlagRequired("form")
	return cmd
}

func runRender(global *GlobalOptions, opts *RenderOptions) error {
	form, err := LoadForm(opts.FormPath)
	if err != nil {
		return err
	}
	payloadDoc, err := LoadPayload(opts.PayloadPath)
	if err != nil {
		return err
	}
	tmpl, err := LoadTemplate(opts.TemplateText, opts.TemplatePath)
	if err != nil {
		return err
	}

	options, err := global.engineOptions()
	if err != nil {
		return err
	}
	options = append(options, engine.WithFormStore(store.NewMemoryFormStore(form)))
	eng := engine.New(options...)
	ctx := cmdContext()

	if opts.Interactive {
		payloadDoc, err = promptForMissing(eng, form.ID, tmpl, payloadDoc)
		if err != nil {
			return err
		}
	}

	rendered := eng.Render(ctx, tmpl, form.ID, payloadDoc)
	return writeOutput(opts.OutputPath, rendered)
}

// promptForMissing resolves each template variable once and asks the user for
// anything that came back empty, merging the answers in as direct payload
// keys so they win over every fallback strategy.
func promptForMissing(eng *engine.Engine, formID, tmpl string, payloadDoc any) (any, error) {
	ctx := cmdContext()
	merged := eng.ResolveAllMappings(ctx, formID, payloadDoc)

	for _, name := range template.Tokenize(tmpl) {
		probe := eng.Render(ctx, "{{"+name+"}}", formID, merged)
		if probe != "" {
			continue
		}
		var answer string
		prompt := &survey.Input{Message: fmt.Sprintf("Value for {{%s}}:", name)}
		if err := survey.AskOne(prompt, &answer); err != nil {
			return nil, fmt.Errorf("cli: prompt for %s: %w", name, err)
		}
		if answer != "" {
			merged[name] = answer
		}
	}
	return merged, nil
}

func writeOutput(path, content string) error {
	if path == "" {
		fmt.Println(content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("cli: write output: %w", err)
	}
	fmt.Printf("Rendered template written to %s\n", path)
	return nil
}

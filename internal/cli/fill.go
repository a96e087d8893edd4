package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/formguard"
)

// prompter asks for one answer, re-asking until validate accepts it.
type prompter interface {
	Input(message string, validate func(answer string) error) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message string, validate func(string) error) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, survey.WithValidator(func(ans interface{}) error {
		if s, ok := ans.(string); ok {
			return validate(s)
		}
		return nil
	}))
	return answer, err
}

func newFillCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fill <form>",
		Short: "Fill in a form interactively",
		Long: `Fill prompts for every field of a built-in form in order. Each answer is
checked as it is typed, with the same messages the form would show, and the
prompt repeats until the field is valid. Leave a field empty to skip it when
it is optional. The completed submission is printed as YAML or JSON.`,
		Example: `  formguard fill donor-personal > donor.yaml
  formguard fill account --output json --lang en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := formguard.Preset(args[0])
			if err != nil {
				return usageError("", err)
			}

			values, err := a.fill(schema)
			if err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					return usageError("interrupted", nil)
				}
				return usageError("prompt", err)
			}

			if result := a.validator().ValidateForm(values, schema); !result.Valid() {
				return a.printResult(cmd.ErrOrStderr(), result)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(output) {
			case "json":
				return writeJSON(out, values)
			case "yaml", "":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(values); err != nil {
					return err
				}
				return enc.Close()
			default:
				return usageError(fmt.Sprintf("unsupported --output %q (yaml, json)", output), nil)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Output format: yaml or json")
	return cmd
}

// fill asks for each field in schema order. Every answer is checked against the
// field's rules with all previous answers visible, so same_as and date_range work.
func (a *app) fill(schema *formguard.Schema) (map[string]any, error) {
	v := a.validator()
	values := make(map[string]any)

	for _, name := range schema.Fields() {
		single, err := formguard.NewSchema(formguard.Field(name, schema.Rules(name)...))
		if err != nil {
			return nil, err
		}

		answer, err := a.prompter.Input(name, func(ans string) error {
			trial := make(map[string]any, len(values)+1)
			for k, val := range values {
				trial[k] = val
			}
			trial[name] = ans
			if msg := v.ValidateForm(trial, single)[name]; msg != "" {
				return errors.New(msg)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if answer = strings.TrimSpace(answer); answer != "" {
			values[name] = answer
		}
	}
	return values, nil
}

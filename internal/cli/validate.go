package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/internal/logging"
	"github.com/Azhovan/formguard/sourcefile"
)

func newValidateCommand(a *app) *cobra.Command {
	var (
		form       string
		schemaPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a submission against a form schema",
		Long: `Validate checks a submission file (YAML, JSON or TOML, or "-" for stdin)
against a built-in form or a schema file and prints one message per failing
field. The exit status is 1 when the submission is rejected.

See also: formguard forms, formguard fill`,
		Example: `  # Validate a donor registration
  formguard validate donor.yaml --form donor-personal

  # Validate against a custom schema, English messages
  formguard validate signup.json --schema signup-schema.yaml --lang en

  # Read JSON from stdin
  cat donor.json | formguard validate - --form donor-personal --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := resolveSchema(cmd.Context(), form, schemaPath)
			if err != nil {
				return err
			}
			values, err := readValues(cmd, args[0], format)
			if err != nil {
				return err
			}

			result := a.validator().ValidateForm(values, schema)
			a.logger.Debug("validated submission",
				zap.String(logging.FormKey, formLabel(form, schemaPath)),
				zap.Int("failures", len(result)),
			)
			return a.printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&form, "form", "f", "", "Built-in form name (see formguard forms)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Schema file with fields: [{name, rules}]")
	cmd.Flags().StringVar(&format, "format", "", "Input format: yaml, json or toml (default: from extension, json for stdin)")
	cmd.MarkFlagsMutuallyExclusive("form", "schema")

	return cmd
}

func resolveSchema(ctx context.Context, form, schemaPath string) (*formguard.Schema, error) {
	switch {
	case schemaPath != "":
		schema, err := formguard.LoadSchema(ctx, schemaPath)
		if err != nil {
			return nil, usageError("", err)
		}
		return schema, nil
	case form != "":
		schema, err := formguard.Preset(form)
		if err != nil {
			return nil, usageError("", err)
		}
		return schema, nil
	default:
		return nil, usageError("one of --form or --schema is required", nil)
	}
}

func formLabel(form, schemaPath string) string {
	if form != "" {
		return form
	}
	return schemaPath
}

// readValues loads a submission from path, or from stdin when path is "-".
func readValues(cmd *cobra.Command, path, format string) (map[string]any, error) {
	if path == "-" {
		if format == "" {
			format = "json"
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, usageError("read stdin", err)
		}
		values, err := sourcefile.Decode(data, format)
		if err != nil {
			return nil, usageError("parse stdin", err)
		}
		return values, nil
	}

	values, err := sourcefile.New(path, sourcefile.Options{Format: format, Required: true}).LoadRaw(cmd.Context())
	if err != nil {
		return nil, usageError(fmt.Sprintf("read %s", path), err)
	}
	return values, nil
}

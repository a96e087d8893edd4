package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Azhovan/formguard"
)

type formOutput struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

func newFormsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms",
		Short: "List the built-in forms and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := formguard.Presets()
			forms := make([]formOutput, 0, len(names))
			for _, name := range names {
				schema, err := formguard.Preset(name)
				if err != nil {
					return err
				}
				forms = append(forms, formOutput{Name: name, Fields: schema.Fields()})
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return writeJSON(out, forms)
			}
			for _, f := range forms {
				fmt.Fprintf(out, "%-16s %s\n", f.Name, strings.Join(f.Fields, ", "))
			}
			return nil
		},
	}
}

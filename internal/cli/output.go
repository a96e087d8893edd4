package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Azhovan/formguard"
)

type resultOutput struct {
	Valid  bool             `json:"valid"`
	Errors formguard.Result `json:"errors"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes a validation result and returns rejected() when it has failures.
func (a *app) printResult(w io.Writer, result formguard.Result) error {
	if result == nil {
		result = formguard.Result{}
	}
	if a.jsonOut {
		if err := writeJSON(w, resultOutput{Valid: result.Valid(), Errors: result}); err != nil {
			return err
		}
	} else if result.Valid() {
		fmt.Fprintln(w, "valid")
	} else {
		for _, field := range result.Fields() {
			fmt.Fprintf(w, "%s: %s\n", field, result[field])
		}
	}

	if !result.Valid() {
		return rejected()
	}
	return nil
}

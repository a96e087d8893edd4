package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Azhovan/formguard"
)

type eligibilityOutput struct {
	Eligible   bool     `json:"eligible"`
	Violations []string `json:"violations"`
}

func newEligibilityCommand(a *app) *cobra.Command {
	var (
		donor        formguard.Donor
		birthDate    string
		lastDonation string
	)

	cmd := &cobra.Command{
		Use:   "eligibility",
		Short: "Check whether a donor may give blood",
		Long: fmt.Sprintf(`Eligibility checks age (%d to %d), weight (at least %gkg), the interval
since the last donation (at least %d days) and chronic disease. Every failed
check is listed. Checks whose facts are not given are skipped.`,
			formguard.MinDonorAge, formguard.MaxDonorAge, formguard.MinDonorWeight, formguard.DonationIntervalDays),
		Example: `  formguard eligibility --age 30 --weight 50 --last-donation 2026-09-01
  formguard eligibility --birth-date 1990-05-01 --chronic --lang en`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if donor.BirthDate, err = parseDateFlag("birth-date", birthDate); err != nil {
				return err
			}
			if donor.LastDonationDate, err = parseDateFlag("last-donation", lastDonation); err != nil {
				return err
			}

			violations := a.validator().Eligibility(donor)
			out := cmd.OutOrStdout()
			if a.jsonOut {
				if violations == nil {
					violations = []string{}
				}
				if err := writeJSON(out, eligibilityOutput{Eligible: len(violations) == 0, Violations: violations}); err != nil {
					return err
				}
			} else if len(violations) == 0 {
				fmt.Fprintln(out, "eligible")
			} else {
				for _, v := range violations {
					fmt.Fprintf(out, "- %s\n", v)
				}
			}

			if len(violations) > 0 {
				return rejected()
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&donor.Age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "Birth date (YYYY-MM-DD); takes precedence over --age")
	cmd.Flags().Float64Var(&donor.Weight, "weight", 0, "Weight in kg")
	cmd.Flags().StringVar(&lastDonation, "last-donation", "", "Date of the last donation (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&donor.HasChronicDisease, "chronic", false, "Donor has a chronic disease")

	return cmd
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, usageError(fmt.Sprintf("--%s must be YYYY-MM-DD", name), nil)
	}
	return t, nil
}

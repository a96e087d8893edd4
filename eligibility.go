package formguard

import (
	"strconv"
	"time"
)

// Donation eligibility thresholds.
const (
	MinDonorAge          = 18
	MaxDonorAge          = 65
	MinDonorWeight       = 45.0
	DonationIntervalDays = 56
)

// Donor holds the facts eligibility is decided on.
// Zero values mean "unknown" and skip the corresponding check.
// BirthDate takes precedence over Age when both are set.
type Donor struct {
	Age               int       `json:"age,omitempty"`
	BirthDate         time.Time `json:"birthDate"`
	Weight            float64   `json:"weight,omitempty"`
	LastDonationDate  time.Time `json:"lastDonationDate"`
	HasChronicDisease bool      `json:"hasChronicDisease,omitempty"`
}

// Eligibility returns one message per failed check, in the order
// age, weight, donation interval, chronic disease. An empty slice means eligible.
func (v *Validator) Eligibility(d Donor) []string {
	now := v.now()
	var violations []string

	if age, ok := donorAge(d, now); ok && (age < MinDonorAge || age > MaxDonorAge) {
		violations = append(violations, v.messages.Text("eligibility.age", Params{
			"min": strconv.Itoa(MinDonorAge),
			"max": strconv.Itoa(MaxDonorAge),
		}))
	}

	if d.Weight > 0 && d.Weight < MinDonorWeight {
		violations = append(violations, v.messages.Text("eligibility.weight", Params{
			"min": formatNumber(MinDonorWeight),
		}))
	}

	if !d.LastDonationDate.IsZero() && now.Sub(d.LastDonationDate) < DonationIntervalDays*day {
		violations = append(violations, v.messages.Text("eligibility.interval", Params{
			"days": strconv.Itoa(DonationIntervalDays),
		}))
	}

	if d.HasChronicDisease {
		violations = append(violations, v.messages.Text("eligibility.chronic_disease", nil))
	}

	return violations
}

func donorAge(d Donor, now time.Time) (int, bool) {
	if !d.BirthDate.IsZero() {
		return wholeYears(d.BirthDate, now), true
	}
	if d.Age > 0 {
		return d.Age, true
	}
	return 0, false
}

// CheckEligibility evaluates d with the default validator.
func CheckEligibility(d Donor) []string {
	return Default().Eligibility(d)
}

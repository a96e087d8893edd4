package formguard

import (
	"fmt"
	"sort"
)

// Preset names accepted by Preset.
const (
	PresetDonorPersonal = "donor-personal"
	PresetDonorMedical  = "donor-medical"
	PresetAccount       = "account"
	PresetHospital      = "hospital"
	PresetEvent         = "event"
	PresetBloodRequest  = "blood-request"
)

var donorPersonalTable = [][2]string{
	{"fullName", "required,min_length:2,max_length:100"},
	{"email", "required,email"},
	{"phone", "required,phone"},
	{"dateOfBirth", "required,future_date,min_age:18,max_age:65"},
	{"gender", "required,oneof:male,female,other"},
	{"idNumber", "required,national_id"},
	{"bloodGroup", "blood_group"},
	{"address", "required,max_length:255"},
}

var donorMedicalTable = [][2]string{
	{"weight", "required,min:45"},
	{"height", "min:140,max:220"},
	{"lastDonationDate", "future_date,min_days_since:56"},
}

var accountTable = [][2]string{
	{"username", "required,min_length:3,max_length:50"},
	{"email", "required,email"},
	{"password", "required,min_length:8,password"},
	{"confirmPassword", "required,same_as:password"},
}

var hospitalTable = [][2]string{
	{"hospitalName", "required,max_length:200"},
	{"address", "required,max_length:255"},
	{"phone", "required,phone"},
	{"email", "email"},
	{"licenseNumber", "required"},
	{"website", "tag:url"},
}

var eventTable = [][2]string{
	{"name", "required,max_length:200"},
	{"location", "required"},
	{"startDate", "required,past_date,date_range:endDate"},
	{"endDate", "required,past_date"},
	{"capacity", "min:1"},
}

var bloodRequestTable = [][2]string{
	{"patientName", "required,max_length:100"},
	{"bloodGroup", "required,blood_group"},
	{"units", "required,min:1,max:10"},
	{"hospital", "required"},
	{"neededBy", "past_date"},
	{"contactPhone", "required,phone"},
}

// Built-in form schemas.
var (
	// DonorPersonalSchema covers donor registration: identity, contact and birth date (age 18 to 65).
	DonorPersonalSchema = mustTable(donorPersonalTable)

	// DonorMedicalSchema covers the pre-donation health form.
	DonorMedicalSchema = mustTable(donorMedicalTable)

	// AccountSchema covers sign-up: username, email, password complexity and confirmation.
	AccountSchema = mustTable(accountTable)

	// HospitalSchema covers hospital registration.
	HospitalSchema = mustTable(hospitalTable)

	// EventSchema covers blood drive scheduling; startDate must not be after endDate.
	EventSchema = mustTable(eventTable)

	// BloodRequestSchema covers a hospital's request for blood units.
	BloodRequestSchema = mustTable(bloodRequestTable)
)

var presets = map[string]*Schema{
	PresetDonorPersonal: DonorPersonalSchema,
	PresetDonorMedical:  DonorMedicalSchema,
	PresetAccount:       AccountSchema,
	PresetHospital:      HospitalSchema,
	PresetEvent:         EventSchema,
	PresetBloodRequest:  BloodRequestSchema,
}

func mustTable(table [][2]string) *Schema {
	s, err := SchemaFromTable(table)
	if err != nil {
		panic(err)
	}
	return s
}

// Presets returns the registered preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the built-in schema registered under name.
func Preset(name string) (*Schema, error) {
	s, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return s, nil
}

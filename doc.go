// Package formguard provides declarative form validation for blood-donation workflows.
//
// Quick Start:
//
//	schema := formguard.MustSchema(
//	    formguard.Field("email", formguard.Required(), formguard.Email()),
//	    formguard.Field("age", formguard.Required(), formguard.MinAge(18)),
//	)
//
//	result := formguard.ValidateForm(map[string]any{"email": "a@b", "age": 15}, schema)
//	if !result.Valid() {
//	    // result["email"] == "Email không hợp lệ"
//	    // result["age"]   == "Tuổi phải từ 18 trở lên"
//	}
//
// Schemas can also be written as directive tables:
//
//	schema, err := formguard.SchemaFromTable([][2]string{
//	    {"email", "required,email"},
//	    {"dateOfBirth", "required,future_date,min_age:18,max_age:65"},
//	    {"gender", "oneof:male,female,other"},
//	})
//
// Directives: required, email, phone, national_id, passport, blood_group, password,
// min_length:N, max_length:N, min_age:N, max_age:N, future_date, past_date,
// min_days_since:N, min:N, max:N, oneof:a,b,c, same_as:field, date_range:field, tag:validator-tag
//
// Messages come from a Catalog (Vietnamese by default, English built in).
// See example_test.go for detailed usage.
package formguard

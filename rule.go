package formguard

import (
	"time"
)

// Rule checks a single field value. It returns "" when the value passes,
// otherwise the message to show beneath the field.
//
// Rules must be pure. Every rule except Required passes on an empty value,
// so optional fields never fail just because they are blank.
// rc may be nil: the current time and the Vietnamese catalog are used then.
type Rule func(value any, rc *Context) string

// Context carries evaluation-time inputs shared by the rules of one submission.
type Context struct {
	// Field is the name of the field being checked ("" outside a schema).
	Field string

	// Values is the whole submission, for cross-field rules such as SameAs.
	Values map[string]any

	// Now is the evaluation time used by age and date rules.
	Now time.Time

	// Messages resolves rule codes to user-facing text.
	Messages *Catalog
}

func (rc *Context) now() time.Time {
	if rc == nil || rc.Now.IsZero() {
		return time.Now()
	}
	return rc.Now
}

func (rc *Context) catalog() *Catalog {
	if rc == nil || rc.Messages == nil {
		return Vietnamese()
	}
	return rc.Messages
}

func (rc *Context) field() string {
	if rc == nil {
		return ""
	}
	return rc.Field
}

// Lookup returns another field's submitted value.
func (rc *Context) Lookup(field string) (any, bool) {
	if rc == nil || rc.Values == nil {
		return nil, false
	}
	v, ok := rc.Values[field]
	return v, ok
}

// Fail resolves the message for code against the current field.
func (rc *Context) Fail(code string, params Params) string {
	return rc.catalog().Message(rc.field(), code, params)
}

// Message replaces the failure text of rule with msg. The rule's pass/fail decision is unchanged.
func Message(msg string, rule Rule) Rule {
	return func(value any, rc *Context) string {
		if rule(value, rc) == "" {
			return ""
		}
		return msg
	}
}

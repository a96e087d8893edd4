package formguard

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^(0|\+84|84)(3|5|7|8|9)[0-9]{8}$`)
	nationalIDPattern = regexp.MustCompile(`^([0-9]{9}|[0-9]{12})$`)
	passportPattern   = regexp.MustCompile(`^[A-Z][0-9]{7,8}$`)
	bloodGroupPattern = regexp.MustCompile(`^(A|B|AB|O)[+-]$`)

	// RE2 has no lookahead, so each password class is its own pattern.
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`[0-9]`),
		regexp.MustCompile(`[^a-zA-Z0-9\s]`),
	}
)

const day = 24 * time.Hour

// Required fails on nil, blank strings (after trimming), zero times, nil pointers and empty collections.
func Required() Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return rc.Fail(CodeRequired, nil)
		}
		return ""
	}
}

// Pattern fails when a non-empty value does not match re. The message is looked up under code.
func Pattern(code string, re *regexp.Regexp) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		if !re.MatchString(strings.TrimSpace(asString(value))) {
			return rc.Fail(code, nil)
		}
		return ""
	}
}

// Email checks a basic local@domain.tld shape.
func Email() Rule { return Pattern(CodeEmail, emailPattern) }

// Phone checks a Vietnamese mobile number: 0, 84 or +84 followed by a 3/5/7/8/9 prefix and 8 digits.
func Phone() Rule { return Pattern(CodePhone, phonePattern) }

// NationalID checks a 9-digit CMND or 12-digit CCCD number.
func NationalID() Rule { return Pattern(CodeNationalID, nationalIDPattern) }

// Passport checks an uppercase letter followed by 7 or 8 digits.
func Passport() Rule { return Pattern(CodePassport, passportPattern) }

// BloodGroup checks A, B, AB or O followed by + or -.
func BloodGroup() Rule { return Pattern(CodeBloodGroup, bloodGroupPattern) }

// Password requires at least one lowercase letter, uppercase letter, digit and symbol.
func Password() Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		s := asString(value)
		for _, re := range passwordClasses {
			if !re.MatchString(s) {
				return rc.Fail(CodePassword, nil)
			}
		}
		return ""
	}
}

// ConfirmEquals fails when a non-empty value is not identical to other.
func ConfirmEquals(other any) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		if !reflect.DeepEqual(value, other) {
			return rc.Fail(CodeConfirm, nil)
		}
		return ""
	}
}

// SameAs is ConfirmEquals against another field of the same submission.
func SameAs(field string) Rule {
	return func(value any, rc *Context) string {
		other, _ := rc.Lookup(field)
		return ConfirmEquals(other)(value, rc)
	}
}

// MinLength fails when a non-empty string has fewer than n characters.
func MinLength(n int) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		if utf8.RuneCountInString(asString(value)) < n {
			return rc.Fail(CodeMinLength, Params{"min": strconv.Itoa(n)})
		}
		return ""
	}
}

// MaxLength fails when a non-empty string has more than n characters.
func MaxLength(n int) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		if utf8.RuneCountInString(asString(value)) > n {
			return rc.Fail(CodeMaxLength, Params{"max": strconv.Itoa(n)})
		}
		return ""
	}
}

// ageOf returns an age in whole years. Numbers are taken as ages,
// dates as birth dates evaluated at rc's current time.
func ageOf(value any, rc *Context) (int, bool) {
	if isNumeric(value) {
		n, _ := asNumber(value)
		return int(n), true
	}
	birth, ok := asTime(value, rc.now().Location())
	if !ok {
		return 0, false
	}
	return wholeYears(birth, rc.now()), true
}

// MinAge fails when the age derived from a birth date (or a numeric age) is below n.
func MinAge(n int) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		age, ok := ageOf(value, rc)
		if !ok {
			return rc.Fail(CodeInvalidDate, nil)
		}
		if age < n {
			return rc.Fail(CodeMinAge, Params{"min": strconv.Itoa(n)})
		}
		return ""
	}
}

// MaxAge fails when the age derived from a birth date (or a numeric age) is above n.
func MaxAge(n int) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		age, ok := ageOf(value, rc)
		if !ok {
			return rc.Fail(CodeInvalidDate, nil)
		}
		if age > n {
			return rc.Fail(CodeMaxAge, Params{"max": strconv.Itoa(n)})
		}
		return ""
	}
}

func dateRule(value any, rc *Context, check func(t time.Time) string) string {
	if isEmpty(value) {
		return ""
	}
	t, ok := asTime(value, rc.now().Location())
	if !ok {
		return rc.Fail(CodeInvalidDate, nil)
	}
	return check(t)
}

// FutureDate fails when the date is strictly after now ("must not be in the future").
func FutureDate() Rule {
	return func(value any, rc *Context) string {
		return dateRule(value, rc, func(t time.Time) string {
			if t.After(rc.now()) {
				return rc.Fail(CodeFutureDate, nil)
			}
			return ""
		})
	}
}

// PastDate fails when the date is strictly before now ("must not be in the past").
func PastDate() Rule {
	return func(value any, rc *Context) string {
		return dateRule(value, rc, func(t time.Time) string {
			if t.Before(rc.now()) {
				return rc.Fail(CodePastDate, nil)
			}
			return ""
		})
	}
}

// MinDaysSince fails when the date is fewer than n days before now, including future dates.
func MinDaysSince(n int) Rule {
	return func(value any, rc *Context) string {
		return dateRule(value, rc, func(t time.Time) string {
			if rc.now().Sub(t) < time.Duration(n)*day {
				return rc.Fail(CodeMinDaysSince, Params{"days": strconv.Itoa(n)})
			}
			return ""
		})
	}
}

// DateRange fails when both start and end are present and start is after end.
// The checked value itself is ignored; the rule is bound to fixed dates.
func DateRange(start, end any) Rule {
	return func(_ any, rc *Context) string {
		return checkRange(start, end, rc)
	}
}

// DateRangeWith treats the checked value as the start date and endField as the end date.
func DateRangeWith(endField string) Rule {
	return func(value any, rc *Context) string {
		end, _ := rc.Lookup(endField)
		return checkRange(value, end, rc)
	}
}

func checkRange(start, end any, rc *Context) string {
	if isEmpty(start) || isEmpty(end) {
		return ""
	}
	s, ok := asTime(start, rc.now().Location())
	if !ok {
		return rc.Fail(CodeInvalidDate, nil)
	}
	e, ok := asTime(end, rc.now().Location())
	if !ok {
		return rc.Fail(CodeInvalidDate, nil)
	}
	if s.After(e) {
		return rc.Fail(CodeDateRange, nil)
	}
	return ""
}

// Min fails when a non-empty numeric value is below n.
func Min(n float64) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		f, ok := asNumber(value)
		if !ok {
			return rc.Fail(CodeNumber, nil)
		}
		if f < n {
			return rc.Fail(CodeMin, Params{"min": formatNumber(n)})
		}
		return ""
	}
}

// Max fails when a non-empty numeric value is above n.
func Max(n float64) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		f, ok := asNumber(value)
		if !ok {
			return rc.Fail(CodeNumber, nil)
		}
		if f > n {
			return rc.Fail(CodeMax, Params{"max": formatNumber(n)})
		}
		return ""
	}
}

// OneOf fails when a non-empty value is not one of options.
func OneOf(options ...string) Rule {
	allowed := make(map[string]struct{}, len(options))
	for _, opt := range options {
		allowed[opt] = struct{}{}
	}
	joined := strings.Join(options, ", ")

	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		if _, ok := allowed[strings.TrimSpace(asString(value))]; !ok {
			return rc.Fail(CodeOneOf, Params{"options": joined})
		}
		return ""
	}
}

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

func playground() *validator.Validate {
	tagValidatorOnce.Do(func() {
		tagValidator = validator.New()
	})
	return tagValidator
}

// Tag delegates to a go-playground/validator tag such as "url", "uuid4" or "iso3166_1_alpha2".
// Empty values pass. Non-string values and unknown tags fail with the "invalid" message.
func Tag(tag string) Rule {
	return func(value any, rc *Context) string {
		if isEmpty(value) {
			return ""
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.String {
			return rc.Fail(CodeInvalid, Params{"tag": tag})
		}
		if err := runTag(rv.String(), tag); err != nil {
			return rc.Fail(CodeInvalid, Params{"tag": tag})
		}
		return ""
	}
}

// runTag checks s against tag. go-playground panics on undefined tags; the panic becomes an error.
func runTag(s, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tag %q: %v", tag, r)
		}
	}()
	return playground().Var(s, tag)
}

// knownTag reports whether go-playground can parse tag.
func knownTag(tag string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = playground().Var("", tag)
	return true
}

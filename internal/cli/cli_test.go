package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/formguard"
)

var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

type runResult struct {
	stdout string
	stderr string
	code   int
	err    error
}

func run(t *testing.T, a *app, stdin string, args ...string) runResult {
	t.Helper()
	if a == nil {
		a = &app{}
	}
	a.now = func() time.Time { return testNow }

	cmd := newRootCommand(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	code := ExitCode(err, &stderr)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), code: code, err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validAccount = `
username: annguyen
email: an@example.com
password: Secret1!
confirmPassword: Secret1!
`

func TestForms(t *testing.T) {
	res := run(t, nil, "", "forms")
	require.Equal(t, ExitOK, res.code, res.stderr)
	for _, name := range formguard.Presets() {
		assert.Contains(t, res.stdout, name)
	}
	assert.Contains(t, res.stdout, "confirmPassword")
}

func TestValidate(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, "account.yaml", validAccount)
		res := run(t, nil, "", "validate", path, "--form", "account")
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "valid\n", res.stdout)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeFile(t, "account.json", `{"username":"an","email":"an@example.com","password":"Secret1!","confirmPassword":"Secret1!"}`)
		res := run(t, nil, "", "validate", path, "--form", "account")
		assert.Equal(t, ExitRejected, res.code)
		assert.Equal(t, "username: Tên đăng nhập phải có ít nhất 3 ký tự\n", res.stdout)
		assert.Empty(t, res.stderr)
	})

	t.Run("stdin json in english", func(t *testing.T) {
		res := run(t, nil, `{"email":"nope"}`, "validate", "-", "--form", "account", "--json", "--lang", "en")
		assert.Equal(t, ExitRejected, res.code)

		var out resultOutput
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.False(t, out.Valid)
		assert.Equal(t, []string{"confirmPassword", "email", "password", "username"}, out.Errors.Fields())
		assert.Equal(t, formguard.English().Message("email", formguard.CodeEmail, nil), out.Errors["email"])
	})

	t.Run("custom schema", func(t *testing.T) {
		schema := writeFile(t, "schema.yaml", "fields:\n  - name: bloodGroup\n    rules: \"required,blood_group\"\n")
		input := writeFile(t, "in.yaml", "bloodGroup: C+\n")
		res := run(t, nil, "", "validate", input, "--schema", schema)
		assert.Equal(t, ExitRejected, res.code)
		assert.Contains(t, res.stdout, "bloodGroup: ")
	})

	t.Run("unknown form", func(t *testing.T) {
		path := writeFile(t, "x.yaml", validAccount)
		res := run(t, nil, "", "validate", path, "--form", "nope")
		assert.Equal(t, ExitFailure, res.code)
		assert.ErrorIs(t, res.err, formguard.ErrUnknownPreset)
	})

	t.Run("no form or schema", func(t *testing.T) {
		path := writeFile(t, "x.yaml", validAccount)
		res := run(t, nil, "", "validate", path)
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "one of --form or --schema is required")
	})

	t.Run("missing file", func(t *testing.T) {
		res := run(t, nil, "", "validate", filepath.Join(t.TempDir(), "missing.yaml"), "--form", "account")
		assert.Equal(t, ExitFailure, res.code)
	})
}

func TestEligibility(t *testing.T) {
	vi := formguard.Vietnamese()

	t.Run("eligible", func(t *testing.T) {
		res := run(t, nil, "", "eligibility", "--age", "30", "--weight", "60", "--last-donation", "2026-06-01")
		assert.Equal(t, ExitOK, res.code, res.stderr)
		assert.Equal(t, "eligible\n", res.stdout)
	})

	t.Run("under age", func(t *testing.T) {
		res := run(t, nil, "", "eligibility", "--age", "17")
		assert.Equal(t, ExitRejected, res.code)
		assert.Equal(t, "- "+vi.Text("eligibility.age", formguard.Params{"min": "18", "max": "65"})+"\n", res.stdout)
	})

	t.Run("recent donation only", func(t *testing.T) {
		res := run(t, nil, "", "eligibility", "--age", "30", "--weight", "50", "--last-donation", "2026-10-08", "--json")
		assert.Equal(t, ExitRejected, res.code)

		var out eligibilityOutput
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
		assert.False(t, out.Eligible)
		assert.Equal(t, []string{vi.Text("eligibility.interval", formguard.Params{"days": "56"})}, out.Violations)
	})

	t.Run("bad date", func(t *testing.T) {
		res := run(t, nil, "", "eligibility", "--birth-date", "01/05/1990")
		assert.Equal(t, ExitFailure, res.code)
		assert.Contains(t, res.stderr, "--birth-date must be YYYY-MM-DD")
	})
}

// scriptedPrompter answers each field from a queue, re-asking on rejection like survey does.
type scriptedPrompter struct {
	answers  map[string][]string
	rejected map[string][]string
}

func (p *scriptedPrompter) Input(message string, validate func(string) error) (string, error) {
	for len(p.answers[message]) > 0 {
		ans := p.answers[message][0]
		p.answers[message] = p.answers[message][1:]
		if err := validate(ans); err != nil {
			p.rejected[message] = append(p.rejected[message], err.Error())
			continue
		}
		return ans, nil
	}
	return "", errors.New("no answer for " + message)
}

func TestFill(t *testing.T) {
	p := &scriptedPrompter{
		answers: map[string][]string{
			"username":        {"an", "annguyen"},
			"email":           {"an@example.com"},
			"password":        {"secret", "Secret1!"},
			"confirmPassword": {"Secret2!", "Secret1!"},
		},
		rejected: map[string][]string{},
	}

	res := run(t, &app{prompter: p}, "", "fill", "account", "--output", "json", "--lang", "en")
	require.Equal(t, ExitOK, res.code, res.stderr)

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &values))
	assert.Equal(t, map[string]string{
		"username":        "annguyen",
		"email":           "an@example.com",
		"password":        "Secret1!",
		"confirmPassword": "Secret1!",
	}, values)

	assert.Len(t, p.rejected["username"], 1)
	assert.Len(t, p.rejected["password"], 1)
	assert.Equal(t, []string{formguard.English().Message("confirmPassword", formguard.CodeConfirm, nil)}, p.rejected["confirmPassword"])
}

func TestFill_OptionalFieldSkipped(t *testing.T) {
	p := &scriptedPrompter{
		answers: map[string][]string{
			"weight":           {"50"},
			"height":           {""},
			"lastDonationDate": {"2026-10-01", "2026-01-01"},
		},
		rejected: map[string][]string{},
	}

	res := run(t, &app{prompter: p}, "", "fill", "donor-medical")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Equal(t, "lastDonationDate: \"2026-01-01\"\nweight: \"50\"\n", res.stdout)
	assert.Len(t, p.rejected["lastDonationDate"], 1)
}

func TestConfig(t *testing.T) {
	t.Setenv("FORMGUARD_RETRY__MAX_RETRIES", "5")
	t.Setenv("FORMGUARD_SERVER__METRICS_TOKEN", "hunter2")

	res := run(t, nil, "", "config", "--sources")
	require.Equal(t, ExitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "retry.max_retries: 5 (source: env:FORMGUARD_*)")
	assert.Contains(t, res.stdout, `locale: "vi" (source: default)`)
	assert.NotContains(t, res.stdout, "hunter2")
}

func TestConfig_InvalidEnv(t *testing.T) {
	t.Setenv("FORMGUARD_RETRY__MAX_RETRIES", "50")

	res := run(t, nil, "", "forms")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "load configuration")
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitOK, ExitCode(nil, &buf))
	assert.Equal(t, ExitRejected, ExitCode(rejected(), &buf))
	assert.Empty(t, buf.String())

	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom"), &buf))
	assert.Equal(t, "Error: boom\n", buf.String())
}

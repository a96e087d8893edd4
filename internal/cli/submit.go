package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/classify"
	"github.com/Azhovan/formguard/internal/logging"
	"github.com/Azhovan/formguard/retry"
)

// terminalNotifier prints classifier output for a terminal user.
type terminalNotifier struct {
	w        io.Writer
	loginURL string
}

func (n terminalNotifier) Error(ce *classify.ClassifiedError) {
	fmt.Fprintf(n.w, "Error: %s\n", ce.Message)
	switch ce.Remediation {
	case classify.Reauthenticate:
		fmt.Fprintf(n.w, "Sign in again at %s\n", n.loginURL)
	case classify.Retry:
		fmt.Fprintf(n.w, "Reference: %s\n", ce.ID)
	}
}

func (n terminalNotifier) Success(message string) {
	fmt.Fprintln(n.w, message)
}

func newSubmitCommand(a *app) *cobra.Command {
	var (
		serverURL string
		format    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <form> <file>",
		Short: "Submit a form to a formguard server",
		Long: `Submit posts a submission to a running formguard server and prints the
server's verdict. Failed calls are retried (retry.max_retries attempts,
retry.delay growing linearly) and the final failure is classified into a
user-facing message.`,
		Example: `  formguard submit donor-personal donor.yaml --url http://localhost:8080`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := args[0]
			values, err := readValues(cmd, args[1], format)
			if err != nil {
				return err
			}
			body, err := json.Marshal(values)
			if err != nil {
				return usageError("encode submission", err)
			}

			if serverURL == "" {
				serverURL = defaultServerURL(a.cfg.Server.Addr)
			}
			endpoint, err := url.JoinPath(serverURL, "v1", "forms", form, "validate")
			if err != nil {
				return usageError("invalid --url", err)
			}

			classifier := classify.New(
				classify.WithLogger(a.logger),
				classify.WithCatalog(a.catalog),
				classify.WithNotifier(terminalNotifier{w: cmd.ErrOrStderr(), loginURL: a.cfg.Classifier.LoginURL}),
			)

			client := &http.Client{Timeout: timeout}
			result, err := retry.Do(cmd.Context(), func(ctx context.Context) (formguard.Result, error) {
				return a.post(ctx, client, endpoint, body)
			},
				retry.MaxRetries(a.cfg.Retry.MaxRetries),
				retry.Delay(a.cfg.Retry.Delay),
				retry.OnRetry(func(attempt int, err error) {
					a.logger.Warn("submit attempt failed",
						zap.String(logging.FormKey, form),
						zap.Int("attempt", attempt),
						zap.Error(err),
					)
				}),
			)
			if err != nil {
				classifier.Classify(err, "", classify.WithContext("submit "+form))
				return &ExitError{Code: ExitFailure}
			}

			if err := a.printResult(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !a.jsonOut {
				classifier.ReportSuccess("", classify.WithContext("submit "+form))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "", "Server base URL (default: derived from server.addr)")
	cmd.Flags().StringVar(&format, "format", "", "Input format: yaml, json or toml (default: from extension, json for stdin)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-attempt HTTP timeout")

	return cmd
}

// post sends one submission. 200 and 422 carry a verdict; any other status is an error.
func (a *app) post(ctx context.Context, client *http.Client, endpoint string, body []byte) (formguard.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", a.catalog.Language().String())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		if err := classify.FromResponse(resp); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var verdict resultOutput
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return verdict.Errors, nil
}

// defaultServerURL turns a listen address such as ":8080" into a local base URL.
func defaultServerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

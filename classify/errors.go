package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClassifiedError is the structured result of classifying a failure.
// It is created once per failure and never modified.
type ClassifiedError struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Message     string      `json:"message"`
	StatusCode  int         `json:"statusCode,omitempty"` // 0 when no HTTP status was involved
	Context     string      `json:"context"`
	Timestamp   time.Time   `json:"timestamp"`
	Remediation Remediation `json:"remediation"`
	Err         error       `json:"-"`
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// HTTPError is a failed HTTP call. Message and ErrorText carry the
// server's {"message": ..., "error": ...} body fields when present.
type HTTPError struct {
	Status    int
	Message   string
	ErrorText string
	Err       error
}

func (e *HTTPError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	case e.ErrorText != "":
		return fmt.Sprintf("http %d: %s", e.Status, e.ErrorText)
	default:
		return fmt.Sprintf("http %d", e.Status)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// ServerMessage returns the server-supplied message, preferring "message" over "error".
func (e *HTTPError) ServerMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorText
}

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// serverMessager is implemented by errors that carry a server-supplied message.
type serverMessager interface {
	ServerMessage() string
}

const maxErrorBody = 64 << 10

// FromResponse returns an *HTTPError for 4xx and 5xx responses and nil otherwise.
// The body is read (up to 64KiB) for "message" and "error" fields; resp.Body is not closed.
func FromResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode < 400 {
		return nil
	}

	httpErr := &HTTPError{Status: resp.StatusCode}
	if resp.Body == nil {
		return httpErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		httpErr.Err = err
		return httpErr
	}
	httpErr.Message, httpErr.ErrorText = decodeErrorBody(data)
	return httpErr
}

// decodeErrorBody reads {"message": "..."} and {"error": "..."} bodies as well as
// {"error": {"message": "..."}}, the shape formguard's own API writes.
func decodeErrorBody(data []byte) (message, errorText string) {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return "", ""
	}
	if len(body.Error) == 0 {
		return body.Message, ""
	}

	if json.Unmarshal(body.Error, &errorText) == nil {
		return body.Message, errorText
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body.Error, &nested) == nil {
		errorText = nested.Message
	}
	return body.Message, errorText
}

package classify

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestFromResponse(t *testing.T) {
	t.Run("success returns nil", func(t *testing.T) {
		assert.NoError(t, FromResponse(response(200, `{"message":"ok"}`)))
		assert.NoError(t, FromResponse(response(304, "")))
		assert.NoError(t, FromResponse(nil))
	})

	t.Run("message field", func(t *testing.T) {
		err := FromResponse(response(422, `{"message":"Email đã được sử dụng"}`))
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, 422, httpErr.StatusCode())
		assert.Equal(t, "Email đã được sử dụng", httpErr.ServerMessage())
		assert.Equal(t, "http 422: Email đã được sử dụng", err.Error())
	})

	t.Run("error field", func(t *testing.T) {
		err := FromResponse(response(500, `{"error":"database unavailable"}`))
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, "database unavailable", httpErr.ServerMessage())
	})

	t.Run("classified error object", func(t *testing.T) {
		err := FromResponse(response(404, `{"error":{"id":"x","category":"client","message":"Không tìm thấy biểu mẫu"}}`))
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, "Không tìm thấy biểu mẫu", httpErr.ServerMessage())
	})

	t.Run("error field of another type", func(t *testing.T) {
		err := FromResponse(response(500, `{"error":42}`))
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Empty(t, httpErr.ServerMessage())
	})

	t.Run("non-json body", func(t *testing.T) {
		err := FromResponse(response(502, "<html>Bad Gateway</html>"))
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Empty(t, httpErr.ServerMessage())
		assert.Equal(t, "http 502", err.Error())
	})

	t.Run("nil body", func(t *testing.T) {
		err := FromResponse(&http.Response{StatusCode: 401})
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr))
		assert.Equal(t, 401, httpErr.Status)
	})
}

func TestClassifiedErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	ce := &ClassifiedError{Message: "Đã xảy ra lỗi", Err: cause}
	assert.Equal(t, "Đã xảy ra lỗi", ce.Error())
	assert.ErrorIs(t, ce, cause)
}

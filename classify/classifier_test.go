package classify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Azhovan/formguard"
)

var fixedTime = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu        sync.Mutex
	errors    []*ClassifiedError
	successes []string
}

func (n *recordingNotifier) Error(ce *ClassifiedError) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, ce)
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func newTestClassifier(opts ...Option) (*Classifier, *[]scheduled) {
	c := New(append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)...)
	var timers []scheduled
	c.after = func(d time.Duration, f func()) {
		timers = append(timers, scheduled{delay: d, fn: f})
	}
	return c, &timers
}

func TestClassify_Categories(t *testing.T) {
	vi := formguard.Vietnamese()
	tests := []struct {
		name        string
		err         error
		fallback    string
		wantCat     Category
		wantMessage string
		wantStatus  int
	}{
		{
			name:        "401 is authentication",
			err:         &HTTPError{Status: 401},
			fallback:    "Không thể tải dữ liệu",
			wantCat:     Authentication,
			wantMessage: "Không thể tải dữ liệu",
			wantStatus:  401,
		},
		{
			name:        "403 is authorization",
			err:         &HTTPError{Status: 403, Message: "Bạn không có quyền"},
			fallback:    "fb",
			wantCat:     Authorization,
			wantMessage: "Bạn không có quyền",
			wantStatus:  403,
		},
		{
			name:        "422 is validation",
			err:         &HTTPError{Status: 422, ErrorText: "Email đã tồn tại"},
			fallback:    "fb",
			wantCat:     Validation,
			wantMessage: "Email đã tồn tại",
			wantStatus:  422,
		},
		{
			name:        "404 is client",
			err:         &HTTPError{Status: 404},
			fallback:    "fb",
			wantCat:     Client,
			wantMessage: "fb",
			wantStatus:  404,
		},
		{
			name:        "500 is server",
			err:         &HTTPError{Status: 500},
			fallback:    "fb",
			wantCat:     Server,
			wantMessage: "fb",
			wantStatus:  500,
		},
		{
			name:        "wrapped status",
			err:         fmt.Errorf("list donors: %w", &HTTPError{Status: 503}),
			fallback:    "fb",
			wantCat:     Server,
			wantMessage: "fb",
			wantStatus:  503,
		},
		{
			name:        "status outside error range falls through",
			err:         &HTTPError{Status: 302},
			fallback:    "fb",
			wantCat:     Unknown,
			wantMessage: "http 302",
		},
		{
			name:        "network error message",
			err:         errors.New("Network Error"),
			fallback:    "fb",
			wantCat:     Network,
			wantMessage: vi.Text("classify.network", nil),
		},
		{
			name:        "connection refused",
			err:         errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"),
			fallback:    "fb",
			wantCat:     Network,
			wantMessage: vi.Text("classify.network", nil),
		},
		{
			name:        "net.Error in chain",
			err:         fmt.Errorf("fetch: %w", &net.DNSError{Err: "server misbehaving", Name: "api"}),
			fallback:    "fb",
			wantCat:     Network,
			wantMessage: vi.Text("classify.network", nil),
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			fallback:    "fb",
			wantCat:     Network,
			wantMessage: vi.Text("classify.network", nil),
		},
		{
			name:        "expired token",
			err:         fmt.Errorf("parse token: %w", jwt.ErrTokenExpired),
			fallback:    "fb",
			wantCat:     Authentication,
			wantMessage: vi.Text("classify.authentication", nil),
		},
		{
			name:        "plain message is unknown",
			err:         errors.New("Số lượng không hợp lệ"),
			fallback:    "fb",
			wantCat:     Unknown,
			wantMessage: "Số lượng không hợp lệ",
		},
		{
			name:        "blank message uses fallback",
			err:         errors.New("   "),
			fallback:    "fb",
			wantCat:     Unknown,
			wantMessage: "fb",
		},
		{
			name:        "nil uses fallback",
			err:         nil,
			fallback:    "Không thể lưu",
			wantCat:     Unknown,
			wantMessage: "Không thể lưu",
		},
		{
			name:        "nil with empty fallback uses catalog",
			err:         nil,
			wantCat:     Unknown,
			wantMessage: vi.Text("classify.fallback", nil),
		},
	}

	c, _ := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := c.Classify(tt.err, tt.fallback)
			assert.Equal(t, tt.wantCat, ce.Category)
			assert.Equal(t, tt.wantMessage, ce.Message)
			assert.Equal(t, tt.wantStatus, ce.StatusCode)
			assert.Equal(t, RemediationFor(tt.wantCat), ce.Remediation)
			assert.Equal(t, DefaultContext, ce.Context)
			assert.Equal(t, fixedTime, ce.Timestamp)
			assert.NotEmpty(t, ce.ID)
			assert.Equal(t, tt.err, ce.Err)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []error{
		&HTTPError{Status: 401},
		&HTTPError{Status: 500, Message: "down"},
		errors.New("Network Error"),
		errors.New("something odd"),
		nil,
	}
	c := New()
	for _, err := range inputs {
		first := c.Classify(err, "fb")
		for i := 0; i < 5; i++ {
			again := c.Classify(err, "fb")
			assert.Equal(t, first.Category, again.Category)
			assert.Equal(t, first.Message, again.Message)
			assert.NotEqual(t, first.ID, again.ID)
		}
	}
}

func TestClassify_SanitizesServerMessage(t *testing.T) {
	c, _ := newTestClassifier()

	ce := c.Classify(&HTTPError{Status: 400, Message: `<b>Tên</b> <script>alert(1)</script>không hợp lệ &amp; trống`}, "fb")
	assert.Equal(t, "Tên không hợp lệ & trống", ce.Message)

	ce = c.Classify(&HTTPError{Status: 400, Message: "<br/>"}, "fb")
	assert.Equal(t, "fb", ce.Message)
}

func TestClassify_Context(t *testing.T) {
	c, _ := newTestClassifier()
	ce := c.Classify(errors.New("x"), "fb", WithContext("donor.register"))
	assert.Equal(t, "donor.register", ce.Context)

	ce = c.Classify(errors.New("x"), "fb", WithContext(""))
	assert.Equal(t, DefaultContext, ce.Context)
}

func TestClassify_Capture(t *testing.T) {
	c, _ := newTestClassifier()
	var captured *ClassifiedError
	ce := c.Classify(&HTTPError{Status: 500}, "fb", WithCapture(func(e *ClassifiedError) { captured = e }))
	require.NotNil(t, captured)
	assert.Same(t, ce, captured)
}

func TestClassify_Notifier(t *testing.T) {
	n := &recordingNotifier{}
	c, _ := newTestClassifier(WithNotifier(n))

	c.Classify(errors.New("Network Error"), "fb")
	c.Classify(errors.New("quiet"), "fb", WithoutNotify())
	c.ReportSuccess("")
	c.ReportSuccess("Đăng ký thành công", WithoutNotify())

	require.Len(t, n.errors, 1)
	assert.Equal(t, Network, n.errors[0].Category)
	assert.Equal(t, []string{formguard.Vietnamese().Text("classify.success", nil)}, n.successes)
}

func TestClassify_AuthenticationRedirect(t *testing.T) {
	redirected := 0
	c, timers := newTestClassifier(WithRedirect(0, func() { redirected++ }))

	c.Classify(&HTTPError{Status: 401}, "fb")
	require.Len(t, *timers, 1)
	assert.Equal(t, DefaultRedirectDelay, (*timers)[0].delay)
	assert.Equal(t, 0, redirected, "redirect must wait for the timer")

	(*timers)[0].fn()
	assert.Equal(t, 1, redirected)

	c.Classify(&HTTPError{Status: 403}, "fb")
	c.Classify(&HTTPError{Status: 401}, "fb", WithoutNotify())
	assert.Len(t, *timers, 1)
}

func TestClassify_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c, _ := newTestClassifier(WithLogger(zap.New(core)))

	c.Classify(&HTTPError{Status: 422, Message: "bad"}, "fb", WithContext("form.submit"))
	c.Classify(&HTTPError{Status: 500}, "fb")
	c.Classify(errors.New("silent"), "fb", WithoutLog())
	c.ReportSuccess("ok")

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "bad", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "validation", fields["category"])
	assert.Equal(t, "form.submit", fields["context"])
	assert.EqualValues(t, 422, fields["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[2].Level)
}

func TestClassify_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, _ := newTestClassifier(WithMetrics(NewMetrics(reg)))

	c.Classify(&HTTPError{Status: 500}, "fb")
	c.Classify(&HTTPError{Status: 502}, "fb")
	c.Classify(nil, "fb")
	c.ReportSuccess("ok")

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts["formguard_classified_errors_total/server"])
	assert.Equal(t, 1.0, counts["formguard_classified_errors_total/unknown"])
	assert.Equal(t, 1.0, counts["formguard_reported_successes_total"])
}

func TestClassify_EnglishCatalog(t *testing.T) {
	c, _ := newTestClassifier(WithCatalog(formguard.English()))
	ce := c.Classify(errors.New("failed to fetch"), "")
	assert.Equal(t, formguard.English().Text("classify.network", nil), ce.Message)
}

func TestPackageClassify(t *testing.T) {
	ce := Classify(&HTTPError{Status: 401}, "fb")
	assert.Equal(t, Authentication, ce.Category)
	assert.Same(t, Default(), Default())
}

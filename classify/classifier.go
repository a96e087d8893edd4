package classify

import (
	"errors"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
)

// DefaultContext labels classifications made without WithContext.
const DefaultContext = "Unknown"

// DefaultRedirectDelay is how long an authentication failure waits before redirecting.
const DefaultRedirectDelay = 2 * time.Second

// Notifier displays classifier output to the user (toast, snackbar, CLI line).
type Notifier interface {
	Error(ce *ClassifiedError)
	Success(message string)
}

// NotifierFuncs adapts plain functions to Notifier. Nil fields are ignored.
type NotifierFuncs struct {
	OnError   func(ce *ClassifiedError)
	OnSuccess func(message string)
}

func (n NotifierFuncs) Error(ce *ClassifiedError) {
	if n.OnError != nil {
		n.OnError(ce)
	}
}

func (n NotifierFuncs) Success(message string) {
	if n.OnSuccess != nil {
		n.OnSuccess(message)
	}
}

// tokenErrors are golang-jwt failures that mean the session is no longer valid.
var tokenErrors = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenExpired,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidClaims,
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the log sink. Default: zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotifier sets the display callback.
func WithNotifier(n Notifier) Option {
	return func(c *Classifier) {
		c.notifier = n
	}
}

// WithCatalog sets the catalog for the fixed network, session and fallback messages.
// Default: formguard.Vietnamese().
func WithCatalog(cat *formguard.Catalog) Option {
	return func(c *Classifier) {
		if cat != nil {
			c.messages = cat
		}
	}
}

// WithRedirect schedules fn after delay whenever an authentication failure is shown.
// A non-positive delay uses DefaultRedirectDelay.
func WithRedirect(delay time.Duration, fn func()) Option {
	return func(c *Classifier) {
		if delay <= 0 {
			delay = DefaultRedirectDelay
		}
		c.redirectDelay = delay
		c.redirect = fn
	}
}

// WithMetrics attaches prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// WithClock sets the timestamp source. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// Classifier maps failures to categories and performs the configured side effects.
// Category decisions depend only on the failure; it is safe for concurrent use.
type Classifier struct {
	logger        *zap.Logger
	notifier      Notifier
	messages      *formguard.Catalog
	redirect      func()
	redirectDelay time.Duration
	metrics       *Metrics
	now           func() time.Time
	after         func(d time.Duration, f func())
	sanitizer     *bluemonday.Policy
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		logger:        zap.NewNop(),
		messages:      formguard.Vietnamese(),
		redirectDelay: DefaultRedirectDelay,
		now:           time.Now,
		after:         func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		sanitizer:     bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultClassifier *Classifier
	defaultOnce       sync.Once
)

// Default returns a shared Classifier with no logging, notifier or redirect.
func Default() *Classifier {
	defaultOnce.Do(func() {
		defaultClassifier = New()
	})
	return defaultClassifier
}

// Classify classifies err with the default classifier.
func Classify(err error, fallback string, opts ...CallOption) *ClassifiedError {
	return Default().Classify(err, fallback, opts...)
}

// CallOption adjusts a single Classify or ReportSuccess call.
type CallOption func(*callOptions)

type callOptions struct {
	context string
	capture func(*ClassifiedError)
	log     bool
	notify  bool
}

// WithContext labels the failure (e.g. "donor.register"). Default: "Unknown".
func WithContext(label string) CallOption {
	return func(o *callOptions) {
		o.context = label
	}
}

// WithCapture receives the classified error after logging and notification.
func WithCapture(fn func(*ClassifiedError)) CallOption {
	return func(o *callOptions) {
		o.capture = fn
	}
}

// WithoutLog skips the log sink.
func WithoutLog() CallOption {
	return func(o *callOptions) {
		o.log = false
	}
}

// WithoutNotify skips the notifier and the authentication redirect.
func WithoutNotify() CallOption {
	return func(o *callOptions) {
		o.notify = false
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	o := callOptions{context: DefaultContext, log: true, notify: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.context == "" {
		o.context = DefaultContext
	}
	return o
}

// Classify reduces err to a ClassifiedError. It never fails: unrecognized or nil
// input yields Unknown with fallback (or the catalog fallback when fallback is empty).
//
// Priority, first match wins:
//  1. an HTTP status (any error in the chain with StatusCode() int) in 4xx/5xx
//  2. a golang-jwt token error: Authentication
//  3. a transport failure (net.Error or a known substring): Network with the fixed message
//  4. any other non-empty message: Unknown with that message
//  5. Unknown with fallback
func (c *Classifier) Classify(err error, fallback string, opts ...CallOption) *ClassifiedError {
	o := applyCallOptions(opts)
	if fallback == "" {
		fallback = c.messages.Text("classify.fallback", nil)
	}

	category, message, status := c.categorize(err, fallback)
	ce := &ClassifiedError{
		ID:          uuid.NewString(),
		Category:    category,
		Message:     message,
		StatusCode:  status,
		Context:     o.context,
		Timestamp:   c.now(),
		Remediation: RemediationFor(category),
		Err:         err,
	}

	c.metrics.recordError(category)
	if o.log {
		c.log(ce)
	}
	if o.notify {
		if c.notifier != nil {
			c.notifier.Error(ce)
		}
		if category == Authentication && c.redirect != nil {
			c.after(c.redirectDelay, c.redirect)
		}
	}
	if o.capture != nil {
		o.capture(ce)
	}
	return ce
}

func (c *Classifier) categorize(err error, fallback string) (Category, string, int) {
	if err == nil {
		return Unknown, fallback, 0
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		status := sc.StatusCode()
		if category, ok := categoryForStatus(status); ok {
			message := fallback
			var sm serverMessager
			if errors.As(err, &sm) {
				if m := c.sanitize(sm.ServerMessage()); m != "" {
					message = m
				}
			}
			return category, message, status
		}
	}

	for _, target := range tokenErrors {
		if errors.Is(err, target) {
			return Authentication, c.messages.Text("classify.authentication", nil), 0
		}
	}

	if isNetworkError(err) {
		return Network, c.messages.Text("classify.network", nil), 0
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return Unknown, msg, 0
	}
	return Unknown, fallback, 0
}

// sanitize strips markup from server-supplied text.
func (c *Classifier) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
}

func (c *Classifier) log(ce *ClassifiedError) {
	fields := []zap.Field{
		zap.String("error_id", ce.ID),
		zap.String("category", string(ce.Category)),
		zap.String("context", ce.Context),
		zap.String("remediation", string(ce.Remediation)),
	}
	if ce.StatusCode != 0 {
		fields = append(fields, zap.Int("status", ce.StatusCode))
	}
	if ce.Err != nil {
		fields = append(fields, zap.Error(ce.Err))
	}

	switch ce.Category {
	case Validation, Client:
		c.logger.Warn(ce.Message, fields...)
	default:
		c.logger.Error(ce.Message, fields...)
	}
}

// ReportSuccess logs and displays a success message. An empty message uses the catalog default.
// WithCapture does not apply.
func (c *Classifier) ReportSuccess(message string, opts ...CallOption) {
	o := applyCallOptions(opts)
	if message == "" {
		message = c.messages.Text("classify.success", nil)
	}

	c.metrics.recordSuccess()
	if o.log {
		c.logger.Info(message, zap.String("context", o.context))
	}
	if o.notify && c.notifier != nil {
		c.notifier.Success(message)
	}
}

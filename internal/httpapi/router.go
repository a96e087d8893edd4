// Package httpapi exposes form validation and donor eligibility over HTTP.
package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/classify"
	"github.com/Azhovan/formguard/internal/logging"
)

// Options configures the router.
type Options struct {
	// Bundle selects the response language from Accept-Language. Default: formguard.DefaultBundle().
	Bundle *formguard.Bundle

	// Logger receives request and classification logs. Default: zap.NewNop().
	Logger *zap.Logger

	// Registry holds the HTTP and classifier metrics served on /metrics.
	// Default: a fresh registry.
	Registry *prometheus.Registry

	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string

	// Now is the clock for age and date rules. Default: time.Now.
	Now func() time.Time
}

type api struct {
	bundle       *formguard.Bundle
	logger       *zap.Logger
	now          func() time.Time
	metricsToken string
	classifiers  map[*formguard.Catalog]*classify.Classifier
	requests     *prometheus.CounterVec
}

// NewRouter builds the gin engine:
//
//	GET  /healthz
//	GET  /v1/forms
//	POST /v1/forms/:form/validate
//	POST /v1/eligibility
//	GET  /metrics
func NewRouter(opts Options) *gin.Engine {
	if opts.Bundle == nil {
		opts.Bundle = formguard.DefaultBundle()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &api{
		bundle:       opts.Bundle,
		logger:       opts.Logger,
		now:          opts.Now,
		metricsToken: opts.MetricsToken,
		classifiers:  make(map[*formguard.Catalog]*classify.Classifier),
		requests: promauto.With(opts.Registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "formguard_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}

	metrics := classify.NewMetrics(opts.Registry)
	for _, tag := range opts.Bundle.Languages() {
		cat := opts.Bundle.Match(tag.String())
		a.classifiers[cat] = classify.New(
			classify.WithLogger(opts.Logger),
			classify.WithCatalog(cat),
			classify.WithMetrics(metrics),
		)
	}

	r := gin.New()
	r.Use(gin.Recovery(), a.observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.GET("/forms", a.listForms)
	v1.POST("/forms/:form/validate", a.validateForm)
	v1.POST("/eligibility", a.checkEligibility)

	r.GET("/metrics", a.requireToken(), gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	return r
}

// observe logs each request and counts it by route template.
func (a *api) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		a.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		a.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int(logging.StatusKey, status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (a *api) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.metricsToken == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(a.metricsToken)) != 1 {
			cat := a.catalog(c)
			a.fail(c, cat, &classify.HTTPError{Status: http.StatusUnauthorized}, cat.Text("api.unauthorized", nil))
			return
		}
		c.Next()
	}
}

// catalog picks the response language: ?lang= wins over Accept-Language.
func (a *api) catalog(c *gin.Context) *formguard.Catalog {
	if lang := c.Query("lang"); lang != "" {
		return a.bundle.Match(lang)
	}
	return a.bundle.Match(c.GetHeader("Accept-Language"))
}

func (a *api) validator(cat *formguard.Catalog) *formguard.Validator {
	return formguard.New(formguard.WithCatalog(cat), formguard.WithClock(a.now))
}

// fail classifies err, logs it and aborts with the classified error as body.
func (a *api) fail(c *gin.Context, cat *formguard.Catalog, err *classify.HTTPError, fallback string) {
	classifier, ok := a.classifiers[cat]
	if !ok {
		classifier = classify.New(classify.WithLogger(a.logger), classify.WithCatalog(cat))
	}
	ce := classifier.Classify(err, fallback, classify.WithContext(c.FullPath()), classify.WithoutNotify())
	c.AbortWithStatusJSON(err.Status, gin.H{"error": ce})
}

// Package metrics exposes Prometheus counters and histograms for the calls the
// front-end makes on behalf of the browser.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courtlink/internal/adapters/identity"
)

// Recorder owns a dedicated registry so tests and multiple servers never
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	requestTotal     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	backendTotal     *prometheus.CounterVec
	backendDuration  *prometheus.HistogramVec
	identityTotal    *prometheus.CounterVec
	identityDuration *prometheus.HistogramVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtlink",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status_code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtlink",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests served.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		backendTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtlink",
			Name:      "backend_calls_total",
			Help:      "Total number of calls to the reservation backend.",
		}, []string{"op", "status_code"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtlink",
			Name:      "backend_call_duration_seconds",
			Help:      "Duration of calls to the reservation backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		identityTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtlink",
			Name:      "identity_calls_total",
			Help:      "Total number of calls to the identity provider.",
		}, []string{"op", "outcome"}),
		identityDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courtlink",
			Name:      "identity_call_duration_seconds",
			Help:      "Duration of calls to the identity provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest records one served request. route is the mux pattern, not the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	r.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCall records one backend call. Status 0 means the call never got a response.
func (r *Recorder) ObserveCall(op string, status int, duration time.Duration) {
	r.backendTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	r.backendDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveIdentity records one identity provider call.
func (r *Recorder) ObserveIdentity(op string, err error, duration time.Duration) {
	r.identityTotal.WithLabelValues(op, identityOutcome(err)).Inc()
	r.identityDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func identityOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, identity.ErrAlreadySignedIn):
		return "already_signed_in"
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, identity.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, identity.ErrUserNotConfirmed):
		return "not_confirmed"
	default:
		return "error"
	}
}

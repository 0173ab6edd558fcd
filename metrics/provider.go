// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace   = "issue_migrator"
	requestsNamespace  = "requests"
	migrationNamespace = "migration"

	defaultPrometheusTimeoutSeconds = 60
)

// Kinds of target issues counted by IncreaseIssuesCreated.
const (
	IssueKindMigrated    = "migrated"
	IssueKindPlaceholder = "placeholder"
)

type Provider interface {
	ObserveRequestDuration(tracker, method, handler, statusCode string, elapsed float64)
	IncreaseCacheHits(tracker, method, handler string)
	IncreaseCacheMisses(tracker, method, handler string)

	ObservePhaseDuration(name string, elapsed float64)
	IncreasePhaseErrors(name string)

	IncreaseIssuesCreated(kind string)
	IncreaseCommentsPosted()
	IncreaseStatusUpdates(action string)
	IncreaseMilestonesCreated()
}

type PrometheusProvider struct {
	Registry *prometheus.Registry

	requests    *prometheus.HistogramVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	phaseDuration *prometheus.HistogramVec
	phaseErrors   *prometheus.CounterVec

	issuesCreated     *prometheus.CounterVec
	commentsPosted    prometheus.Counter
	statusUpdates     *prometheus.CounterVec
	milestonesCreated prometheus.Counter
}

func NewPrometheusProvider() *PrometheusProvider {
	provider := &PrometheusProvider{}
	provider.Registry = prometheus.NewRegistry()
	options := prometheus.ProcessCollectorOpts{
		Namespace: metricsNamespace,
	}
	provider.Registry.MustRegister(prometheus.NewProcessCollector(options))
	provider.Registry.MustRegister(prometheus.NewGoCollector())

	provider.requests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: requestsNamespace,
			Name:      "duration",
			Help:      "Duration of the performed tracker http requests.",
		},
		[]string{"tracker", "method", "handler", "status_code"},
	)
	provider.Registry.MustRegister(provider.requests)

	provider.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: requestsNamespace,
			Name:      "cache_hits",
			Help:      "Number of cache hits for requested method and handler.",
		},
		[]string{"tracker", "method", "handler"},
	)
	provider.Registry.MustRegister(provider.cacheHits)

	provider.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: requestsNamespace,
			Name:      "cache_miss",
			Help:      "Number of cache misses for requested method and handler.",
		},
		[]string{"tracker", "method", "handler"},
	)
	provider.Registry.MustRegister(provider.cacheMisses)

	provider.phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "phase_duration",
			Help:      "Duration of the migration phases.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 14),
		},
		[]string{"name"},
	)
	provider.Registry.MustRegister(provider.phaseDuration)

	provider.phaseErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "phase_errors",
			Help:      "Number of failed migration phases.",
		},
		[]string{"name"},
	)
	provider.Registry.MustRegister(provider.phaseErrors)

	provider.issuesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "issues_created",
			Help:      "Number of issues created on the target by kind.",
		},
		[]string{"kind"},
	)
	provider.Registry.MustRegister(provider.issuesCreated)

	provider.commentsPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "comments_posted",
			Help:      "Number of comments replayed on the target.",
		},
	)
	provider.Registry.MustRegister(provider.commentsPosted)

	provider.statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "status_updates",
			Help:      "Number of final status updates by action.",
		},
		[]string{"action"},
	)
	provider.Registry.MustRegister(provider.statusUpdates)

	provider.milestonesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: migrationNamespace,
			Name:      "milestones_created",
			Help:      "Number of milestones created on the target.",
		},
	)
	provider.Registry.MustRegister(provider.milestonesCreated)

	return provider
}

func (p *PrometheusProvider) ObserveRequestDuration(tracker, method, handler, statusCode string, elapsed float64) {
	p.requests.With(
		prometheus.Labels{"tracker": tracker, "method": method, "handler": handler, "status_code": statusCode},
	).Observe(elapsed)
}

func (p *PrometheusProvider) IncreaseCacheHits(tracker, method, handler string) {
	p.cacheHits.WithLabelValues(tracker, method, handler).Inc()
}

func (p *PrometheusProvider) IncreaseCacheMisses(tracker, method, handler string) {
	p.cacheMisses.WithLabelValues(tracker, method, handler).Inc()
}

func (p *PrometheusProvider) ObservePhaseDuration(name string, elapsed float64) {
	p.phaseDuration.With(prometheus.Labels{"name": name}).Observe(elapsed)
}

func (p *PrometheusProvider) IncreasePhaseErrors(name string) {
	p.phaseErrors.WithLabelValues(name).Inc()
}

func (p *PrometheusProvider) IncreaseIssuesCreated(kind string) {
	p.issuesCreated.WithLabelValues(kind).Inc()
}

func (p *PrometheusProvider) IncreaseCommentsPosted() {
	p.commentsPosted.Inc()
}

func (p *PrometheusProvider) IncreaseStatusUpdates(action string) {
	p.statusUpdates.WithLabelValues(action).Inc()
}

func (p *PrometheusProvider) IncreaseMilestonesCreated() {
	p.milestonesCreated.Inc()
}

func (p *PrometheusProvider) Handler() Handler {
	handler := promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{
		Timeout:           time.Duration(defaultPrometheusTimeoutSeconds) * time.Second,
		EnableOpenMetrics: true,
	})
	return Handler{
		Path:        "/metrics",
		Description: "Prometheus Metrics",
		Handler:     handler,
	}
}

// Package metrics exposes Prometheus metrics for the game and its HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Pipeline Metrics
var (
	FramesGrabbed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFramesGrabbed,
			Help: HelpTextFramesGrabbed,
		},
	)

	FramesAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFramesAccepted,
			Help: HelpTextFramesAccepted,
		},
	)

	FramesStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFramesStale,
			Help: HelpTextFramesStale,
		},
	)

	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSourceErrors,
			Help: HelpTextSourceErrors,
		},
		[]string{LabelStage},
	)

	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameClassifications,
			Help: HelpTextClassifications,
		},
		[]string{LabelGesture},
	)

	GestureChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGestureChanges,
			Help: HelpTextGestureChanges,
		},
		[]string{LabelGesture},
	)

	SourceRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSourceRunning,
			Help: HelpTextSourceRunning,
		},
	)
)

// Game Metrics
var (
	RoundsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRoundsStarted,
			Help: HelpTextRoundsStarted,
		},
		[]string{LabelMode},
	)

	RoundsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRoundsResolved,
			Help: HelpTextRoundsResolved,
		},
		[]string{LabelOutcome},
	)

	NoGesture = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNoGesture,
			Help: HelpTextNoGesture,
		},
	)

	CurrentStreak = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameCurrentStreak,
			Help: HelpTextCurrentStreak,
		},
	)

	HighStreak = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHighStreak,
			Help: HelpTextHighStreak,
		},
	)
)

// Display Metrics
var (
	ViewsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameViewsPublished,
			Help: HelpTextViewsPublished,
		},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameWSClients,
			Help: HelpTextWSClients,
		},
	)

	WSDroppedViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWSDroppedViews,
			Help: HelpTextWSDroppedViews,
		},
	)
)

// Hook Metrics
var (
	HookRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHookRuns,
			Help: HelpTextHookRuns,
		},
		[]string{LabelHook, LabelResult},
	)

	HookDroppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHookDroppedEvents,
			Help: HelpTextHookDroppedEvents,
		},
	)
)

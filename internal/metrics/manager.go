package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterReadinessZones     *prometheus.CounterVec
	CounterCoachingFallbacks  prometheus.Counter
	CounterCoachingCacheHits  prometheus.Counter
	CounterProgramGenerations *prometheus.CounterVec
	CounterProgramAdjustments *prometheus.CounterVec
	CounterPersonalRecords    prometheus.Counter
	CounterHandleRequestPanic prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration    *prometheus.HistogramVec
	HistGenerationDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("rockyfit", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("rockyfit", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterReadinessZones := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "readiness_zone",
		Help:      "Readiness scores computed from check-ins, by zone",
	}, []string{"zone"})
	counterCoachingFallbacks := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coaching_fallback",
		Help:      "Coaching requests answered with the neutral fallback",
	})
	counterCoachingCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coaching_cache_hit",
		Help:      "Coaching requests served from cache",
	})
	counterProgramGenerations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_generation",
		Help:      "Programs generated, by source",
	}, []string{"source"})
	counterProgramAdjustments := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "program_adjustment",
		Help:      "Program adjustments applied, by kind",
	}, []string{"kind"})
	counterPersonalRecords := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "personal_record",
		Help:      "Personal records set",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"route"},
	)
	histGenerationDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			Name:      "program_generation_duration_seconds",
			Help:      "Duration of a single external program generation call in seconds",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterReadinessZones:     counterReadinessZones,
		CounterCoachingFallbacks:  counterCoachingFallbacks,
		CounterCoachingCacheHits:  counterCoachingCacheHits,
		CounterProgramGenerations: counterProgramGenerations,
		CounterProgramAdjustments: counterProgramAdjustments,
		CounterPersonalRecords:    counterPersonalRecords,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		GaugeRequests:             gaugeRequests,
		HistRequestDuration:       histReqDuration,
		HistGenerationDuration:    histGenerationDuration,
	}
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "workout_scheduler"

var (
	// Registry - собственный реестр приложения
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	routineSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "routines",
			Name:      "searches_total",
			Help:      "Routine filter searches, split by whether popularity ranking ran.",
		},
		[]string{"ranked"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "registration_events_total",
			Help:      "Registration lifecycle events (pre_registered, confirmed, code_resent).",
		},
		[]string{"event"},
	)

	confirmationEmails = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "confirmation_emails_total",
			Help:      "Confirmation code emails by delivery result.",
		},
		[]string{"result"},
	)

	purgedCodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "users",
			Name:      "confirmation_codes_purged_total",
			Help:      "Stale confirmation codes removed by admin purges.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight,
		httpRequests,
		httpDuration,
		routineSearches,
		registrations,
		confirmationEmails,
		purgedCodes,
	)
}

// Handler отдает метрики реестра
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func IncInFlight() { httpInFlight.Inc() }

func DecInFlight() { httpInFlight.Dec() }

// ObserveHTTPRequest - route это шаблон маршрута, а не сырой путь
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRoutineSearch(ranked bool) {
	routineSearches.WithLabelValues(strconv.FormatBool(ranked)).Inc()
}

func RecordRegistrationEvent(event string) {
	registrations.WithLabelValues(event).Inc()
}

func RecordConfirmationEmail(err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	confirmationEmails.WithLabelValues(result).Inc()
}

func AddPurgedCodes(n int64) {
	if n > 0 {
		purgedCodes.Add(float64(n))
	}
}

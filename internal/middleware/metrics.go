package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fittrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	authEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_auth_events_total",
			Help: "Registrations, logins and logouts by outcome",
		},
		[]string{"event", "outcome"},
	)

	entriesLoggedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_entries_logged_total",
			Help: "Nutrition and progress entries written",
		},
		[]string{"kind"},
	)

	workoutSelectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fittrack_workout_selections_total",
			Help: "Total number of workout template selections",
		},
	)

	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fittrack_predictions_total",
			Help: "Weight predictions by outcome",
		},
		[]string{"outcome"},
	)
)

// Metrics records request counts and latencies keyed by chi route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern avoids one series per UUID. Unmatched paths share a label.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// RecordAuthEvent counts register/login/logout attempts.
func RecordAuthEvent(event string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	authEventsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordEntryLogged counts nutrition ("food") and progress entries.
func RecordEntryLogged(kind string) {
	entriesLoggedTotal.WithLabelValues(kind).Inc()
}

func RecordWorkoutSelection() {
	workoutSelectionsTotal.Inc()
}

// RecordPrediction counts predictions by outcome: ok, invalid, unavailable, error.
func RecordPrediction(outcome string) {
	predictionsTotal.WithLabelValues(outcome).Inc()
}

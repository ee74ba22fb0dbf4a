package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by response status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsondump_requests_total",
		Help: "HTTP requests handled, by status code.",
	}, []string{"code"})

	// PayloadsStored counts stored payloads by classified kind.
	PayloadsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jsondump_payloads_stored_total",
		Help: "Payloads stored, by classification kind.",
	}, []string{"kind"})

	// PayloadBytes counts the total bytes written to storage.
	PayloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jsondump_payload_bytes_total",
		Help: "Total payload bytes written to storage.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records per-request counters around the wrapped handler.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		RequestsTotal.WithLabelValues(strconv.Itoa(srw.status)).Inc()
	})
}

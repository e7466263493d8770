// Package metrics records Prometheus metrics for uploads, commits and HTTP
// traffic on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay"

// Recorder owns every metric the service exports.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	uploads        *prometheus.CounterVec
	uploadRows     *prometheus.CounterVec
	uploadBytes    prometheus.Histogram
	uploadDuration prometheus.Histogram

	commits       *prometheus.CounterVec
	commitRecords *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers all metrics, plus Go runtime and process collectors, on a
// fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,

		uploads: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "requests_total",
			Help:      "Upload requests by response status",
		}, []string{"status"}),

		uploadRows: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "rows_total",
			Help:      "Rows seen in successful uploads by classification",
		}, []string{"kind"}),

		uploadBytes: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "file_bytes",
			Help:      "Size of accepted CSV files",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),

		uploadDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "parse_duration_seconds",
			Help:      "Time spent tokenizing and classifying a file",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),

		commits: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commit",
			Name:      "requests_total",
			Help:      "Commit requests by response status",
		}, []string{"status"}),

		commitRecords: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commit",
			Name:      "records_total",
			Help:      "Records written by successful commits",
		}, []string{"kind"}),

		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),

		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// UploadRejected counts an upload that ended with a non-200 status.
func (r *Recorder) UploadRejected(status int) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(strconv.Itoa(status)).Inc()
}

// UploadParsed counts a successful upload and its row breakdown.
func (r *Recorder) UploadParsed(size int, placements, results, dropped int, took time.Duration) {
	if r == nil {
		return
	}
	r.uploads.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	r.uploadRows.WithLabelValues("placement").Add(float64(placements))
	r.uploadRows.WithLabelValues("leg_result").Add(float64(results))
	r.uploadRows.WithLabelValues("unrecognized").Add(float64(dropped))
	r.uploadBytes.Observe(float64(size))
	r.uploadDuration.Observe(took.Seconds())
}

// CommitRejected counts a commit that ended with a non-200 status.
func (r *Recorder) CommitRejected(status int) {
	if r == nil {
		return
	}
	r.commits.WithLabelValues(strconv.Itoa(status)).Inc()
}

// Committed counts a successful commit.
func (r *Recorder) Committed(placements, results int) {
	if r == nil {
		return
	}
	r.commits.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	r.commitRecords.WithLabelValues("placement").Add(float64(placements))
	r.commitRecords.WithLabelValues("leg_result").Add(float64(results))
}

// Middleware records request count and latency under the chi route
// pattern, so /api/seasons/2023 and /api/seasons/2024 share a series.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.httpRequests.WithLabelValues(route, req.Method, strconv.Itoa(status)).Inc()
		r.httpRequestDuration.WithLabelValues(route, req.Method).Observe(time.Since(start).Seconds())
	})
}

// Package metrics exposes request, highlighter and note counters to
// Prometheus. A nil *Recorder is valid and records nothing.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zone/internal/notes"
)

const namespace = "zone"

type Recorder struct {
	reg               *prom.Registry
	requests          *prom.CounterVec
	requestDuration   *prom.HistogramVec
	highlightDuration prom.Histogram
	highlightLines    prom.Counter
	noteEvents        *prom.CounterVec
}

// New registers the zone collectors, plus the Go and process collectors,
// on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		reg: prom.NewRegistry(),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		highlightDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "highlight_duration_seconds",
			Help:      "Time spent highlighting one document",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		highlightLines: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "highlight_lines_total",
			Help:      "Lines run through the highlighter",
		}),
		noteEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "note_events_total",
			Help:      "Note saves and deletes seen by the store",
		}, []string{"event", "kind"}),
	}
	r.reg.MustRegister(r.requests, r.requestDuration, r.highlightDuration, r.highlightLines, r.noteEvents)
	r.reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return r
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveRequest(route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (r *Recorder) ObserveHighlight(lines int, d time.Duration) {
	if r == nil {
		return
	}
	r.highlightDuration.Observe(d.Seconds())
	r.highlightLines.Add(float64(lines))
}

func (r *Recorder) NoteSaved(_ context.Context, n notes.Note) {
	if r == nil {
		return
	}
	r.noteEvents.WithLabelValues("saved", n.Kind().String()).Inc()
}

func (r *Recorder) NoteDeleted(_ context.Context, id string) {
	if r == nil {
		return
	}
	kind := "unknown"
	if k, err := notes.KindOf(id); err == nil {
		kind = k.String()
	}
	r.noteEvents.WithLabelValues("deleted", kind).Inc()
}

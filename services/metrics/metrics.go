// Package metricsvc exposes prometheus metrics about upstream calls and view updates.
package metricsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "codegrow"

var (
	upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the CodeGrow API, by outcome.",
	}, []string{"method", "resource", "code"})
	upstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests sent to the CodeGrow API.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "resource"})
	staleResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "views",
		Name:      "stale_responses_total",
		Help:      "Responses discarded because a newer request superseded them.",
	}, []string{"view"})
	feedMerged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "merged_records_total",
		Help:      "XP records folded into the main activity they belong to.",
	})
	notifications = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "activity_notifications_total",
		Help:      "Activity updated notifications published.",
	})
	httpRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "web",
		Name:      "request_duration_seconds",
		Help:      "Latency of requests served to the browser, by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})
)

func init() {
	prometheus.MustRegister(upstreamRequests, upstreamLatency, staleResponses, feedMerged, notifications, httpRequests)
}

// ObserveUpstream records one API call. code 0 means no response was received.
func ObserveUpstream(method, path string, code int, took time.Duration) {
	resource := Resource(path)
	label := "network"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	upstreamRequests.WithLabelValues(method, resource, label).Inc()
	upstreamLatency.WithLabelValues(method, resource).Observe(took.Seconds())
}

// ObserveRequest records one request served by the web host. route is the registered path,
// e.g. "/v1/admin/users/:id", never the raw URL.
func ObserveRequest(method, route string, code int, took time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Observe(took.Seconds())
}

func RecordStale(view string) {
	staleResponses.WithLabelValues(view).Inc()
}

// RecordReconciled counts how many records were merged away by a reconciliation.
func RecordReconciled(in, out int) {
	if in > out {
		feedMerged.Add(float64(in - out))
	}
}

func RecordNotification() {
	notifications.Inc()
}

// Resource strips the query and replaces numeric path segments so label cardinality stays bounded,
// e.g. "admin/users/12/activate/?x=1" => "admin/users/:id/activate/".
func Resource(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

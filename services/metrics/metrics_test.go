package metricsvc

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResource(t *testing.T) {
	tests := map[string]string{
		"admin/users/":                    "admin/users/",
		"admin/users/?page=2":             "admin/users/",
		"admin/users/12/":                 "admin/users/:id/",
		"admin/users/12/activate/":        "admin/users/:id/activate/",
		"accounts/complete-lesson/3/":     "accounts/complete-lesson/:id/",
		"accounts/quiz-questions/submit/": "accounts/quiz-questions/submit/",
	}
	for in, want := range tests {
		assert.Equal(t, want, Resource(in), in)
	}
}

func TestObserveUpstream(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "admin/lessons/:id/", "404"))
	ObserveUpstream("GET", "admin/lessons/8/", 404, 20*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "admin/lessons/:id/", "404"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "accounts/activities/", "network"))
	ObserveUpstream("GET", "accounts/activities/", 0, time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(upstreamRequests.WithLabelValues("GET", "accounts/activities/", "network")))
}

func TestFeedCounters(t *testing.T) {
	merged := testutil.ToFloat64(feedMerged)
	RecordReconciled(5, 3)
	RecordReconciled(2, 2)
	assert.Equal(t, merged+2, testutil.ToFloat64(feedMerged))

	stale := testutil.ToFloat64(staleResponses.WithLabelValues("feed"))
	RecordStale("feed")
	assert.Equal(t, stale+1, testutil.ToFloat64(staleResponses.WithLabelValues("feed")))

	sent := testutil.ToFloat64(notifications)
	RecordNotification()
	assert.Equal(t, sent+1, testutil.ToFloat64(notifications))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.CollectAndCount(httpRequests)
	ObserveRequest("GET", "/v1/admin/users/:id", 200, 5*time.Millisecond)
	ObserveRequest("GET", "/v1/admin/users/:id", 200, 7*time.Millisecond)
	ObserveRequest("GET", "/v1/admin/users/:id", 403, time.Millisecond)
	assert.Equal(t, before+2, testutil.CollectAndCount(httpRequests))
}

package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_CountAndTiming(t *testing.T) {
	p := NewPrometheus("booking")

	p.Count(MetricJobListing, 2, map[string]string{"operation": "filtered", "result": "success", "ignored": "x"})
	p.Count(MetricJobListing, 1, map[string]string{"operation": "filtered", "result": "success"})
	p.Timing(MetricJobListing, 150*time.Millisecond, map[string]string{"operation": "filtered", "result": "success"})
	p.Count("unknown.metric", 1, nil)
	p.Count(MetricJobListing, -1, nil)

	got := testutil.ToFloat64(p.counters[MetricJobListing].WithLabelValues("filtered", "success", ""))
	assert.InDelta(t, 3.0, got, 0.0001)
	assert.Equal(t, 1, testutil.CollectAndCount(p.histograms[MetricJobListing]))
}

func TestPrometheus_Handler(t *testing.T) {
	p := NewPrometheus("booking")
	p.Count(MetricHTTPRequest, 1, map[string]string{"method": "GET", "route": "/api/jobs", "status": "200"})

	srv := httptest.NewServer(p.Handler())
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `booking_http_request_total{method="GET",route="/api/jobs",status="200"} 1`)
}

type recordingSink struct {
	counts  map[string]map[string]string
	timings int
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	if r.counts == nil {
		r.counts = map[string]map[string]string{}
	}
	r.counts[name] = tags
}

func (r *recordingSink) Timing(string, time.Duration, map[string]string) { r.timings++ }

func TestEmitListing(t *testing.T) {
	sink := &recordingSink{}
	EmitListing(sink, ListingMetric{
		Operation: "user_jobs",
		Result:    ResultError,
		Duration:  time.Millisecond,
		Err:       context.DeadlineExceeded,
	})
	require.Contains(t, sink.counts, MetricJobListing)
	assert.Equal(t, "timeout", sink.counts[MetricJobListing]["error_class"])
	assert.Equal(t, 1, sink.timings)

	EmitListing(nil, ListingMetric{})
	EmitListing(Noop{}, ListingMetric{Operation: "x", Result: ResultSuccess})
}

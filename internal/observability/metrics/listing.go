package metrics

import (
	"time"

	obserrors "github.com/dtapi/booking-api/internal/observability/errors"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDenied  = "denied"
)

// ListingMetric captures one job listing call for metric emission.
type ListingMetric struct {
	Operation string
	Result    string
	Duration  time.Duration
	Err       error
}

// EmitListing emits standardised job listing metrics.
func EmitListing(sink Sink, in ListingMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"operation": in.Operation,
		"result":    in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(MetricJobListing, 1, tags)

	if in.Duration > 0 {
		sink.Timing(MetricJobListing, in.Duration, CloneTags(tags))
	}
}

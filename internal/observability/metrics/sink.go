// Package metrics emits counts and timings for job listing, auth and HTTP
// traffic through a pluggable Sink.
package metrics

import "time"

// Sink describes the minimal interface required to emit metrics.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Noop discards everything.
type Noop struct{}

var _ Sink = Noop{}

func (Noop) Count(string, int64, map[string]string) {}

func (Noop) Timing(string, time.Duration, map[string]string) {}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

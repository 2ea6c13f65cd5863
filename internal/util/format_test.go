package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDueIn(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{name: "zero", due: time.Time{}, want: "-"},
		{name: "same minute", due: now.Add(30 * time.Second), want: "now"},
		{name: "future", due: now.Add(2*time.Hour + 15*time.Minute), want: "in 2h15m0s"},
		{name: "past", due: now.Add(-90 * time.Minute), want: "overdue 1h30m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDueIn(tt.due, now))
		})
	}
}

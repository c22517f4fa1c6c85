package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0ms"},
		{450 * time.Millisecond, "450ms"},
		{3200 * time.Millisecond, "3.2s"},
		{2*time.Minute + 3*time.Second, "2m 3s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), "FormatDuration(%v)", tt.in)
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}))

	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)
	assert.Equal(t, "2026-03-04 05:06:07", FormatTime(ts))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatAge(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", FormatAge(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", FormatAge(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", FormatAge(now.Add(-50*time.Hour), now))
}

package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTimeBuckets(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"under a minute", 30 * time.Second, "just now"},
		{"ninety seconds is one minute", 90 * time.Second, "1m ago"},
		{"minutes", 45 * time.Minute, "45m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"days", 2 * 24 * time.Hour, "2d ago"},
		{"eight days lands in weeks", 8 * 24 * time.Hour, "1w ago"},
		{"three weeks", 21 * 24 * time.Hour, "3w ago"},
		{"months", 45 * 24 * time.Hour, "1mo ago"},
		{"years", 400 * 24 * time.Hour, "1y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now))
		})
	}
}

func TestRelativeTimeStringFailsClosed(t *testing.T) {
	assert.Equal(t, "not-a-timestamp", RelativeTimeString("not-a-timestamp"))
	assert.Equal(t, "", RelativeTimeString(""))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "999", Number(999))
	assert.Equal(t, "1.0K", Number(1000))
	assert.Equal(t, "1.5K", Number(1532))
	assert.Equal(t, "2.1M", Number(2_100_000))
}

func TestDateAndTimeFailClosed(t *testing.T) {
	assert.Equal(t, "Mar 15, 2026", Date("2026-03-15T12:00:00Z"))
	assert.Equal(t, "garbage", Date("garbage"))
	assert.Equal(t, "02:30 PM", Time("2026-03-15T14:30:00Z"))
	assert.Equal(t, "garbage", Time("garbage"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Critical", Title("critical"))
	assert.Equal(t, "Open", Title("open"))
	assert.Equal(t, "", Title(""))
}

func TestTrend(t *testing.T) {
	assert.Equal(t, 0.0, Trend(10, 0))
	assert.InDelta(t, 25.0, Trend(125, 100), 0.001)
	assert.InDelta(t, -50.0, Trend(50, 100), 0.001)
}

func TestSeverityCategory(t *testing.T) {
	assert.Equal(t, CategoryDanger, SeverityCategory("critical"))
	assert.Equal(t, CategoryDanger, SeverityCategory("Critical"))
	assert.Equal(t, CategoryCaution, SeverityCategory("high"))
	assert.Equal(t, CategoryCaution, SeverityCategory("medium"))
	assert.Equal(t, CategoryInfo, SeverityCategory("low"))
	assert.Equal(t, CategoryNeutral, SeverityCategory("unknown"))
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, CategoryPositive, StatusCategory("active"))
	assert.Equal(t, CategoryPositive, StatusCategory("Completed"))
	assert.Equal(t, CategoryCaution, StatusCategory("warning"))
	assert.Equal(t, CategoryCaution, StatusCategory("in progress"))
	assert.Equal(t, CategoryDanger, StatusCategory("failed"))
	assert.Equal(t, CategoryDanger, StatusCategory("critical"))
	assert.Equal(t, CategoryNeutral, StatusCategory("whatever"))
}

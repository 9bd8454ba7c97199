package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYesterdayRange(t *testing.T) {
	now := time.Date(2024, time.March, 1, 15, 30, 0, 0, time.UTC)
	r := YesterdayRange(now)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), r.End)
}

func TestLastDaysRange(t *testing.T) {
	now := time.Date(2024, time.March, 8, 9, 0, 0, 0, time.UTC)
	r := LastDaysRange(now, 7)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, now, r.End)
	assert.Equal(t, "last 7 days", RangeLabel(7))
	assert.Equal(t, "last day", RangeLabel(1))
}

package utils

import (
	"strconv"
	"time"
)

// TimeRange 表示半开时间区间 [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// YesterdayRange 返回 now 前一天的完整时间区间
func YesterdayRange(now time.Time) TimeRange {
	today := startOfDay(now)
	return TimeRange{
		Start: today.AddDate(0, 0, -1),
		End:   today,
	}
}

// LastDaysRange 返回从 N 天前零点到 now 的时间区间
func LastDaysRange(now time.Time, days int) TimeRange {
	return TimeRange{
		Start: startOfDay(now.AddDate(0, 0, -days)),
		End:   now,
	}
}

// RangeLabel 获取时间范围的标签描述
func RangeLabel(days int) string {
	switch days {
	case 1:
		return "last day"
	default:
		return "last " + strconv.Itoa(days) + " days"
	}
}

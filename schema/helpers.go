package schema

import (
	"math"
	"time"
)

// MonthKeyFormat is the calendar bucket used by developer activity timelines.
const MonthKeyFormat = "2006-01"

// MonthKey returns the calendar-month bucket for a timestamp.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyFormat)
}

// Round rounds a value to the given number of decimal places.
func Round(v float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(v*factor) / factor
}

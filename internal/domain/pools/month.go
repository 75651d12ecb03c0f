package pools

import (
	"fmt"
	"time"

	"github.com/adify/rewards/internal/config"
)

// MonthBounds parses "YYYY-MM" into the half-open UTC interval [start, end).
func MonthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(config.MonthLayout, month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// PreviousMonth returns the last fully closed month before now.
func PreviousMonth(now time.Time) string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0).Format(config.MonthLayout)
}

package pools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthBounds(t *testing.T) {
	start, end, err := MonthBounds("2024-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	start, end, err = MonthBounds("2023-12")
	require.NoError(t, err)
	assert.Equal(t, 2024, end.Year())
	assert.Equal(t, time.January, end.Month())
	assert.Equal(t, time.December, start.Month())

	for _, bad := range []string{"", "2024-13", "2024/01", "24-01"} {
		_, _, err := MonthBounds(bad)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, "2024-01", PreviousMonth(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2023-12", PreviousMonth(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02", PreviousMonth(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)))
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMICForSymbol(t *testing.T) {
	assert.Equal(t, "xnys", MICForSymbol("SLV"))
	assert.Equal(t, "xlon", MICForSymbol("PHAG.L"))
	assert.Equal(t, "xtse", MICForSymbol("SVR.TO"))
	assert.Equal(t, "xtsx", MICForSymbol("ABC.V"))
}

func TestTradingDaysSkipsWeekendsAndHolidays(t *testing.T) {
	tc := GetCalendar("SLV")
	require.NotNil(t, tc)

	// 2024-07-04 is Independence Day, 06/07 is a weekend
	days := tc.TradingDays(
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC),
	)

	var got []string
	for _, d := range days {
		got = append(got, d.Format("2006-01-02"))
		assert.Equal(t, time.UTC, d.Location())
	}
	assert.Equal(t, []string{"2024-07-01", "2024-07-02", "2024-07-03", "2024-07-05", "2024-07-08"}, got)
}

func TestFallbackCalendarIsWeekdaysOnly(t *testing.T) {
	tc := &TradingCalendar{Fallback: true, Timezone: time.UTC}
	assert.True(t, tc.IsTradingDay(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, tc.IsTradingDay(time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC)))
}

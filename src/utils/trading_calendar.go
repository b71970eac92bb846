package utils

import (
	"strings"
	"time"

	"price-movers/src/logger"

	"github.com/scmhub/calendar"
)

// micBySuffix maps a ticker suffix to its exchange MIC (ISO 10383).
// Plain US tickers have no suffix and default to xnys.
var micBySuffix = []struct {
	suffix string
	mic    string
}{
	{".L", "xlon"}, {".PA", "xpar"}, {".DE", "xfra"}, {".AS", "xams"},
	{".BR", "xbru"}, {".MI", "xmil"}, {".MC", "xmad"}, {".ST", "xsto"},
	{".CO", "xcse"}, {".HE", "xhel"}, {".VI", "xwbo"}, {".SW", "xswx"},
	{".TO", "xtse"}, {".V", "xtsx"}, {".T", "xtks"}, {".HK", "xhkg"},
	{".AX", "xasx"}, {".KS", "xkrx"}, {".TW", "xtai"}, {".SS", "xshg"},
	{".SZ", "xshe"},
}

// TradingCalendar answers which calendar days an instrument trades on.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// MICForSymbol resolves the exchange for a ticker from its suffix.
func MICForSymbol(symbol string) string {
	for _, m := range micBySuffix {
		if strings.HasSuffix(symbol, m.suffix) {
			return m.mic
		}
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}

	if cal == nil {
		logger.NewLogger("TradingCalendar").Warning(
			"Failed to load calendar for MIC '%s' and fallback 'xnys'. Using weekdays only.", mic)
		nyLoc, _ := time.LoadLocation("America/New_York")
		if nyLoc == nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the exchange is open on the given calendar date.
// Dates are taken at face value (a 2024-07-04 UTC midnight is July 4th on
// the exchange), so the date is rebuilt at noon in the exchange timezone.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	local := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)

	if tc.Fallback {
		weekday := local.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(local)
}

// -----------------------------------------------------------------------------

// TradingDays lists the trading days in [start, end] as UTC midnights.
func (tc *TradingCalendar) TradingDays(start, end time.Time) []time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var days []time.Time
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		if tc.IsTradingDay(day) {
			days = append(days, day)
		}
	}
	return days
}

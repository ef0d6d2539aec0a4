package utils

import (
	"time"

	"github.com/aquadrop/commission_backend/models"
)

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).
		AddDate(0, 1, -1).Day()
}

// clipDay limits a configured day-of-month to the days the month actually
// has, so a window ending on day 30 still closes in February.
func clipDay(t time.Time, day int) int {
	if max := DaysInMonth(t); day > max {
		return max
	}
	return day
}

// InWithdrawalWindow reports whether asOf falls inside the configured
// day-of-month window. Both edges are clipped to the current month's
// length before comparison.
func InWithdrawalWindow(asOf time.Time, window models.WithdrawalWindow) bool {
	day := asOf.Day()
	return day >= clipDay(asOf, window.StartDay) && day <= clipDay(asOf, window.EndDay)
}

// NextWindowStart returns the next date on which the withdrawal window
// opens: the window's start day in the current month if it has not yet
// passed, otherwise the start day of the following month.
func NextWindowStart(asOf time.Time, window models.WithdrawalWindow) time.Time {
	start := time.Date(asOf.Year(), asOf.Month(), clipDay(asOf, window.StartDay),
		0, 0, 0, 0, asOf.Location())
	if asOf.Day() < start.Day() {
		return start
	}
	firstOfNext := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).
		AddDate(0, 1, 0)
	return time.Date(firstOfNext.Year(), firstOfNext.Month(),
		clipDay(firstOfNext, window.StartDay), 0, 0, 0, 0, asOf.Location())
}

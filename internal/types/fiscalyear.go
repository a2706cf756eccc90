package types

import (
	"fmt"
	"time"
)

// The Indian fiscal year runs April 1 through March 31 of the following
// calendar year. Invoice numbers are scoped to this window.

// FiscalYearLabel returns the fiscal year label for a date in the form
// YYYY-YY, e.g. a date in July 2024 maps to "2024-25" and 2024-03-31 maps
// to "2023-24".
func FiscalYearLabel(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// FiscalYearStart returns April 1 (UTC, inclusive) of the fiscal year the
// date falls in.
func FiscalYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// FiscalYearEnd returns March 31 (UTC, inclusive) of the fiscal year the
// date falls in.
func FiscalYearEnd(t time.Time) time.Time {
	return FiscalYearStart(t).AddDate(1, 0, -1)
}

// Package period resolves the date shortcuts users type into concrete
// query windows. It is pure: callers supply "now" and get dates back.
package period

import (
	"strings"
	"time"
)

// Window is an inclusive calendar date range
type Window struct {
	Start time.Time
	End   time.Time
}

// Shortcut tokens, matching what users type in the period box
const (
	ShortcutToday         = "h"
	ShortcutYesterday     = "o"
	ShortcutWeekToDate    = "s"
	ShortcutPreviousWeek  = "sa"
	ShortcutMonthToDate   = "m"
	ShortcutPreviousMonth = "ma"
	ShortcutYearToDate    = "a"
	ShortcutPreviousYear  = "aa"
)

// DisplayNames maps each shortcut token to its label
var DisplayNames = map[string]string{
	ShortcutToday:         "Hoje",
	ShortcutYesterday:     "Ontem",
	ShortcutWeekToDate:    "Acumulado da Semana",
	ShortcutPreviousWeek:  "Semana Anterior",
	ShortcutMonthToDate:   "Acumulado do Mês",
	ShortcutPreviousMonth: "Mês Anterior",
	ShortcutYearToDate:    "Acumulado do Ano",
	ShortcutPreviousYear:  "Ano Anterior",
}

// Resolve maps a shortcut token to a window relative to now. Weeks start
// on Sunday. Unrecognized tokens return ok=false and the caller keeps its
// explicit date range, clearing the active-shortcut indicator.
func Resolve(shortcut string, now time.Time) (Window, bool) {
	today := date(now.Year(), now.Month(), now.Day())

	switch strings.ToLower(strings.TrimSpace(shortcut)) {
	case ShortcutToday:
		return Window{Start: today, End: today}, true

	case ShortcutYesterday:
		y := today.AddDate(0, 0, -1)
		return Window{Start: y, End: y}, true

	case ShortcutWeekToDate:
		weekday := int(today.Weekday())
		return Window{Start: today.AddDate(0, 0, -weekday), End: today}, true

	case ShortcutPreviousWeek:
		weekday := int(today.Weekday())
		start := today.AddDate(0, 0, -weekday-7)
		return Window{Start: start, End: start.AddDate(0, 0, 6)}, true

	case ShortcutMonthToDate:
		return Window{Start: date(today.Year(), today.Month(), 1), End: today}, true

	case ShortcutPreviousMonth:
		firstOfMonth := date(today.Year(), today.Month(), 1)
		start := firstOfMonth.AddDate(0, -1, 0)
		return Window{Start: start, End: firstOfMonth.AddDate(0, 0, -1)}, true

	case ShortcutYearToDate:
		return Window{Start: date(today.Year(), time.January, 1), End: today}, true

	case ShortcutPreviousYear:
		return Window{
			Start: date(today.Year()-1, time.January, 1),
			End:   date(today.Year()-1, time.December, 31),
		}, true
	}

	return Window{}, false
}

// Contains reports whether the calendar date of t falls inside the window
func (w Window) Contains(t time.Time) bool {
	d := date(t.Year(), t.Month(), t.Day())
	return !d.Before(w.Start) && !d.After(w.End)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

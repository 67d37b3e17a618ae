package recurrence

import (
	"strconv"
	"strings"

	"github.com/flowplan/flowplan/internal/models"
)

var dayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var dayShortNames = [7]string{
	"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
}

// Describe renders a human-readable label for a recurrence state. The label
// is purely derived from the state; nothing persisted feeds into it.
func Describe(state models.RecurrenceState) string {
	return describeBase(state) + describeEnd(state)
}

func describeBase(state models.RecurrenceState) string {
	interval := state.Interval
	if interval < 1 {
		interval = 1
	}

	switch state.Unit {
	case models.UnitDay:
		if interval == 1 {
			return "Daily"
		}
		return "Every " + strconv.Itoa(interval) + " days"
	case models.UnitMonth:
		if interval == 1 {
			return "Monthly"
		}
		return "Every " + strconv.Itoa(interval) + " months"
	case models.UnitWeek:
		return describeWeekly(interval, state.ByDay)
	default:
		unit := string(state.Unit)
		if interval > 1 {
			unit += "s"
		}
		return "Every " + strconv.Itoa(interval) + " " + unit
	}
}

func describeWeekly(interval int, byDay []int) string {
	if interval == 1 && isEveryWeekday(byDay) {
		return "Every weekday"
	}

	var prefix string
	switch interval {
	case 1:
		prefix = "Weekly"
	case 2:
		prefix = "Biweekly"
	default:
		prefix = "Every " + strconv.Itoa(interval) + " weeks"
	}

	days := sortDaysMondayFirst(byDay)
	switch len(days) {
	case 0:
		return prefix
	case 1:
		return prefix + " on " + dayNames[days[0]]
	default:
		names := make([]string, len(days))
		for i, d := range days {
			names[i] = dayShortNames[d]
		}
		return prefix + " on " + strings.Join(names, ", ")
	}
}

func describeEnd(state models.RecurrenceState) string {
	switch state.EndCondition {
	case models.EndAfterCount:
		if state.EndCount > 0 {
			return " ×" + strconv.Itoa(state.EndCount)
		}
	case models.EndOnDate:
		if state.EndDate != "" {
			return " until " + state.EndDate
		}
	}
	return ""
}

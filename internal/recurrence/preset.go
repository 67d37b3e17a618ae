package recurrence

import (
	"time"

	"github.com/flowplan/flowplan/internal/models"
)

// weekdaySet is Monday through Friday.
var weekdaySet = []int{1, 2, 3, 4, 5}

// isEveryWeekday reports whether days is exactly the Monday-Friday set,
// ignoring order and duplicates.
func isEveryWeekday(days []int) bool {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		seen[d] = true
	}
	if len(seen) != len(weekdaySet) {
		return false
	}
	for _, d := range weekdaySet {
		if !seen[d] {
			return false
		}
	}
	return true
}

// DetectPreset derives the display preset from the canonical fields.
// Checks run in priority order; anything that matches no named shape is
// custom.
func DetectPreset(state models.RecurrenceState) models.RecurrencePreset {
	switch {
	case state.Unit == models.UnitDay && state.Interval == 1:
		return models.PresetDaily
	case state.Unit == models.UnitMonth && state.Interval == 1:
		return models.PresetMonthly
	case state.Unit == models.UnitWeek && state.Interval == 1 && isEveryWeekday(state.ByDay):
		return models.PresetEveryWeekday
	case state.Unit == models.UnitWeek && state.Interval == 2:
		return models.PresetBiweekly
	case state.Unit == models.UnitWeek && state.Interval == 1 && len(state.ByDay) <= 1:
		return models.PresetWeeklyOnDay
	default:
		return models.PresetCustom
	}
}

// PresetOption is one entry in a recurrence picker: a named shape with its
// fully-formed state and rendered label.
type PresetOption struct {
	Preset models.RecurrencePreset `json:"preset"`
	Label  string                  `json:"label"`
	State  models.RecurrenceState  `json:"state"`
}

// PresetOptions returns the five canonical picker options for a reference
// date. The weekly and biweekly options land on the reference date's
// weekday, so the result is deterministic for a fixed date.
func PresetOptions(ref time.Time) []PresetOption {
	weekday := int(ref.Weekday())

	states := []models.RecurrenceState{
		{
			Preset:       models.PresetDaily,
			Interval:     1,
			Unit:         models.UnitDay,
			EndCondition: models.EndNever,
		},
		{
			Preset:       models.PresetWeeklyOnDay,
			Interval:     1,
			Unit:         models.UnitWeek,
			ByDay:        []int{weekday},
			EndCondition: models.EndNever,
		},
		{
			Preset:       models.PresetEveryWeekday,
			Interval:     1,
			Unit:         models.UnitWeek,
			ByDay:        append([]int(nil), weekdaySet...),
			EndCondition: models.EndNever,
		},
		{
			Preset:       models.PresetBiweekly,
			Interval:     2,
			Unit:         models.UnitWeek,
			ByDay:        []int{weekday},
			EndCondition: models.EndNever,
		},
		{
			Preset:       models.PresetMonthly,
			Interval:     1,
			Unit:         models.UnitMonth,
			EndCondition: models.EndNever,
		},
	}

	options := make([]PresetOption, len(states))
	for i, state := range states {
		options[i] = PresetOption{
			Preset: state.Preset,
			Label:  Describe(state),
			State:  state,
		}
	}
	return options
}

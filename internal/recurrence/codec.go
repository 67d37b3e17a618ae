package recurrence

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flowplan/flowplan/internal/models"
)

// RulePrefix is the scheme token on canonical rule strings. Decode strips
// it case-insensitively; hand-authored strings may omit it entirely.
const RulePrefix = "RRULE:"

// dayTokens maps weekday numbers (Sunday = 0) to their two-letter tokens.
var dayTokens = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var tokenDays = map[string]int{
	"SU": 0, "MO": 1, "TU": 2, "WE": 3, "TH": 4, "FR": 5, "SA": 6,
}

// mondayFirstIndex gives the listing position of a weekday when Monday
// sorts first and Sunday last. Day lists use this ordering everywhere a
// human or a stored rule string can see them.
func mondayFirstIndex(day int) int {
	return (day + 6) % 7
}

// sortDaysMondayFirst returns a deduplicated copy of days ordered Monday
// through Sunday.
func sortDaysMondayFirst(days []int) []int {
	seen := make(map[int]bool, len(days))
	sorted := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 || seen[d] {
			continue
		}
		seen[d] = true
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return mondayFirstIndex(sorted[i]) < mondayFirstIndex(sorted[j])
	})
	return sorted
}

// Encode serializes a recurrence state to its canonical rule string.
// An on_date end condition is deliberately not encoded: the end date
// travels only as sidecar scheduling metadata on the pattern, and the rule
// string stays open-ended for the occurrence generator to bound.
func Encode(state models.RecurrenceState) string {
	freq := "WEEKLY"
	switch state.Unit {
	case models.UnitDay:
		freq = "DAILY"
	case models.UnitMonth:
		freq = "MONTHLY"
	}

	interval := state.Interval
	if interval < 1 {
		interval = 1
	}

	parts := []string{"FREQ=" + freq, "INTERVAL=" + strconv.Itoa(interval)}

	if state.Unit == models.UnitWeek && len(state.ByDay) > 0 {
		days := sortDaysMondayFirst(state.ByDay)
		tokens := make([]string, len(days))
		for i, d := range days {
			tokens[i] = dayTokens[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(tokens, ","))
	}

	if state.EndCondition == models.EndAfterCount && state.EndCount > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(state.EndCount))
	}

	return RulePrefix + strings.Join(parts, ";")
}

// Decode parses a rule string back into a recurrence state. Parsing is
// best-effort and never fails: rule strings may be hand-authored or legacy,
// so unknown keys and day tokens are dropped, a missing frequency defaults
// to weekly, and a missing or invalid interval collapses to 1. The preset
// is re-derived from the decoded fields; it is never stored in the string.
func Decode(rule string) models.RecurrenceState {
	body := rule
	if len(body) >= len(RulePrefix) && strings.EqualFold(body[:len(RulePrefix)], RulePrefix) {
		body = body[len(RulePrefix):]
	}

	freq := "WEEKLY"
	interval := 1
	count := 0
	var byDay []int

	for _, field := range strings.Split(body, ";") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(kv[0]))
		value := strings.ToUpper(strings.TrimSpace(kv[1]))

		switch key {
		case "FREQ":
			freq = value
		case "INTERVAL":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				interval = n
			}
		case "BYDAY":
			for _, token := range strings.Split(value, ",") {
				if d, ok := tokenDays[strings.TrimSpace(token)]; ok {
					byDay = append(byDay, d)
				}
			}
		case "COUNT":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				count = n
			}
		}
	}

	unit := models.UnitWeek
	switch freq {
	case "DAILY":
		unit = models.UnitDay
	case "MONTHLY":
		unit = models.UnitMonth
	}

	state := models.RecurrenceState{
		Interval:     interval,
		Unit:         unit,
		ByDay:        byDay,
		EndCondition: models.EndNever,
	}
	if count > 0 {
		state.EndCondition = models.EndAfterCount
		state.EndCount = count
	}
	state.Preset = DetectPreset(state)
	return state
}

// DecodeOrLegacy decodes a rule string when one exists, falling back to the
// legacy frequency enum otherwise. The reference date seeds the weekday
// selection for the weekly and biweekly fallbacks.
func DecodeOrLegacy(rule string, legacy models.Frequency, ref time.Time) models.RecurrenceState {
	if rule != "" {
		return Decode(rule)
	}
	return FromLegacyFrequency(legacy, ref)
}

// DefaultWeeklyState is the starting selection for a new weekly item:
// once a week on the reference date's weekday.
func DefaultWeeklyState(ref time.Time) models.RecurrenceState {
	return models.RecurrenceState{
		Preset:       models.PresetWeeklyOnDay,
		Interval:     1,
		Unit:         models.UnitWeek,
		ByDay:        []int{int(ref.Weekday())},
		EndCondition: models.EndNever,
	}
}

// FromLegacyFrequency maps the old frequency enum onto a default recurrence
// state. Unrecognized values fall back to the weekly default.
func FromLegacyFrequency(freq models.Frequency, ref time.Time) models.RecurrenceState {
	switch freq {
	case models.FrequencyDaily:
		return models.RecurrenceState{
			Preset:       models.PresetDaily,
			Interval:     1,
			Unit:         models.UnitDay,
			EndCondition: models.EndNever,
		}
	case models.FrequencyMonthly:
		return models.RecurrenceState{
			Preset:       models.PresetMonthly,
			Interval:     1,
			Unit:         models.UnitMonth,
			EndCondition: models.EndNever,
		}
	case models.FrequencyBiweekly:
		return models.RecurrenceState{
			Preset:       models.PresetBiweekly,
			Interval:     2,
			Unit:         models.UnitWeek,
			ByDay:        []int{int(ref.Weekday())},
			EndCondition: models.EndNever,
		}
	default:
		return DefaultWeeklyState(ref)
	}
}

// ToLegacyFrequency projects a recurrence state onto the legacy frequency
// enum for consumers that still only understand it. The projection drops
// day-of-week selections and intervals beyond 2; it is metadata, never the
// source of truth.
func ToLegacyFrequency(state models.RecurrenceState) models.Frequency {
	switch state.Unit {
	case models.UnitDay:
		return models.FrequencyDaily
	case models.UnitMonth:
		return models.FrequencyMonthly
	default:
		if state.Interval >= 2 {
			return models.FrequencyBiweekly
		}
		return models.FrequencyWeekly
	}
}

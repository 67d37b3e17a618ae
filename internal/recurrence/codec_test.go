package recurrence

import (
	"reflect"
	"testing"
	"time"

	"github.com/flowplan/flowplan/internal/models"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state models.RecurrenceState
		want  string
	}{
		{
			name: "weekly on monday wednesday friday",
			state: models.RecurrenceState{
				Unit:         models.UnitWeek,
				Interval:     1,
				ByDay:        []int{1, 3, 5},
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR",
		},
		{
			name: "sunday sorts last",
			state: models.RecurrenceState{
				Unit:         models.UnitWeek,
				Interval:     1,
				ByDay:        []int{0, 1, 6},
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,SA,SU",
		},
		{
			name: "day order in input does not matter",
			state: models.RecurrenceState{
				Unit:         models.UnitWeek,
				Interval:     1,
				ByDay:        []int{5, 1, 3},
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR",
		},
		{
			name: "daily with interval",
			state: models.RecurrenceState{
				Unit:         models.UnitDay,
				Interval:     2,
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=DAILY;INTERVAL=2",
		},
		{
			name: "monthly",
			state: models.RecurrenceState{
				Unit:         models.UnitMonth,
				Interval:     1,
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=MONTHLY;INTERVAL=1",
		},
		{
			name: "count limit",
			state: models.RecurrenceState{
				Unit:         models.UnitWeek,
				Interval:     1,
				ByDay:        []int{1},
				EndCondition: models.EndAfterCount,
				EndCount:     10,
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO;COUNT=10",
		},
		{
			name: "on_date end is not encoded",
			state: models.RecurrenceState{
				Unit:         models.UnitWeek,
				Interval:     1,
				ByDay:        []int{2},
				EndCondition: models.EndOnDate,
				EndDate:      "2026-12-31",
			},
			want: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=TU",
		},
		{
			name: "byday ignored for non-week units",
			state: models.RecurrenceState{
				Unit:         models.UnitMonth,
				Interval:     3,
				ByDay:        []int{1, 2},
				EndCondition: models.EndNever,
			},
			want: "RRULE:FREQ=MONTHLY;INTERVAL=3",
		},
		{
			name: "zero count emits no limit",
			state: models.RecurrenceState{
				Unit:         models.UnitDay,
				Interval:     1,
				EndCondition: models.EndAfterCount,
				EndCount:     0,
			},
			want: "RRULE:FREQ=DAILY;INTERVAL=1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Encode(tt.state); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rule         string
		wantUnit     models.RecurrenceUnit
		wantInterval int
		wantByDay    []int
		wantEnd      models.EndCondition
		wantCount    int
		wantPreset   models.RecurrencePreset
	}{
		{
			name:         "daily every other day resolves to custom",
			rule:         "RRULE:FREQ=DAILY;INTERVAL=2",
			wantUnit:     models.UnitDay,
			wantInterval: 2,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetCustom,
		},
		{
			name:         "weekly with count",
			rule:         "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO;COUNT=10",
			wantUnit:     models.UnitWeek,
			wantInterval: 1,
			wantByDay:    []int{1},
			wantEnd:      models.EndAfterCount,
			wantCount:    10,
			wantPreset:   models.PresetWeeklyOnDay,
		},
		{
			name:         "prefix stripped case-insensitively",
			rule:         "rrule:FREQ=DAILY;INTERVAL=1",
			wantUnit:     models.UnitDay,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetDaily,
		},
		{
			name:         "missing prefix is fine",
			rule:         "FREQ=MONTHLY;INTERVAL=1",
			wantUnit:     models.UnitMonth,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetMonthly,
		},
		{
			name:         "lowercase fields are uppercased",
			rule:         "freq=weekly;interval=2;byday=mo,fr",
			wantUnit:     models.UnitWeek,
			wantInterval: 2,
			wantByDay:    []int{1, 5},
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetBiweekly,
		},
		{
			name:         "missing frequency defaults to weekly",
			rule:         "RRULE:INTERVAL=3",
			wantUnit:     models.UnitWeek,
			wantInterval: 3,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetCustom,
		},
		{
			name:         "invalid interval collapses to 1",
			rule:         "RRULE:FREQ=DAILY;INTERVAL=abc",
			wantUnit:     models.UnitDay,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetDaily,
		},
		{
			name:         "negative interval collapses to 1",
			rule:         "RRULE:FREQ=DAILY;INTERVAL=-4",
			wantUnit:     models.UnitDay,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetDaily,
		},
		{
			name:         "unknown day tokens dropped",
			rule:         "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,XX,FR",
			wantUnit:     models.UnitWeek,
			wantInterval: 1,
			wantByDay:    []int{1, 5},
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetCustom,
		},
		{
			name:         "unknown keys and junk fields ignored",
			rule:         "RRULE:FREQ=WEEKLY;WKST=MO;garbage;INTERVAL=1",
			wantUnit:     models.UnitWeek,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetWeeklyOnDay,
		},
		{
			name:         "zero count means never",
			rule:         "RRULE:FREQ=DAILY;INTERVAL=1;COUNT=0",
			wantUnit:     models.UnitDay,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetDaily,
		},
		{
			name:         "empty string decodes to weekly default",
			rule:         "",
			wantUnit:     models.UnitWeek,
			wantInterval: 1,
			wantEnd:      models.EndNever,
			wantPreset:   models.PresetWeeklyOnDay,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Decode(tt.rule)
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %q, want %q", got.Unit, tt.wantUnit)
			}
			if got.Interval != tt.wantInterval {
				t.Errorf("Interval = %d, want %d", got.Interval, tt.wantInterval)
			}
			if len(got.ByDay) != 0 || len(tt.wantByDay) != 0 {
				if !reflect.DeepEqual(got.ByDay, tt.wantByDay) {
					t.Errorf("ByDay = %v, want %v", got.ByDay, tt.wantByDay)
				}
			}
			if got.EndCondition != tt.wantEnd {
				t.Errorf("EndCondition = %q, want %q", got.EndCondition, tt.wantEnd)
			}
			if got.EndCount != tt.wantCount {
				t.Errorf("EndCount = %d, want %d", got.EndCount, tt.wantCount)
			}
			if got.Preset != tt.wantPreset {
				t.Errorf("Preset = %q, want %q", got.Preset, tt.wantPreset)
			}
		})
	}
}

// The rule string must be stable under a decode/re-encode cycle even though
// the preset is re-derived rather than recovered.
func TestRoundTripStability(t *testing.T) {
	t.Parallel()

	states := []models.RecurrenceState{
		{Unit: models.UnitDay, Interval: 1, EndCondition: models.EndNever},
		{Unit: models.UnitDay, Interval: 3, EndCondition: models.EndNever},
		{Unit: models.UnitWeek, Interval: 1, ByDay: []int{5, 1, 3}, EndCondition: models.EndNever},
		{Unit: models.UnitWeek, Interval: 2, ByDay: []int{0}, EndCondition: models.EndNever},
		{Unit: models.UnitWeek, Interval: 1, ByDay: []int{1, 2, 3, 4, 5}, EndCondition: models.EndNever},
		{Unit: models.UnitWeek, Interval: 1, ByDay: []int{1}, EndCondition: models.EndAfterCount, EndCount: 10},
		{Unit: models.UnitMonth, Interval: 1, EndCondition: models.EndNever},
		{Unit: models.UnitMonth, Interval: 6, EndCondition: models.EndNever},
		{Unit: models.UnitWeek, Interval: 1, ByDay: []int{2}, EndCondition: models.EndOnDate, EndDate: "2026-12-31"},
	}

	for _, state := range states {
		first := Encode(state)
		second := Encode(Decode(first))
		if first != second {
			t.Errorf("round trip unstable: %q re-encoded to %q", first, second)
		}
	}
}

func TestFromLegacyFrequency(t *testing.T) {
	t.Parallel()

	// A Thursday.
	ref := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)
	thursday := int(ref.Weekday())

	tests := []struct {
		name string
		freq models.Frequency
		want models.RecurrenceState
	}{
		{
			name: "daily",
			freq: models.FrequencyDaily,
			want: models.RecurrenceState{
				Preset: models.PresetDaily, Interval: 1,
				Unit: models.UnitDay, EndCondition: models.EndNever,
			},
		},
		{
			name: "monthly",
			freq: models.FrequencyMonthly,
			want: models.RecurrenceState{
				Preset: models.PresetMonthly, Interval: 1,
				Unit: models.UnitMonth, EndCondition: models.EndNever,
			},
		},
		{
			name: "biweekly seeds current weekday",
			freq: models.FrequencyBiweekly,
			want: models.RecurrenceState{
				Preset: models.PresetBiweekly, Interval: 2,
				Unit: models.UnitWeek, ByDay: []int{thursday},
				EndCondition: models.EndNever,
			},
		},
		{
			name: "weekly seeds current weekday",
			freq: models.FrequencyWeekly,
			want: models.RecurrenceState{
				Preset: models.PresetWeeklyOnDay, Interval: 1,
				Unit: models.UnitWeek, ByDay: []int{thursday},
				EndCondition: models.EndNever,
			},
		},
		{
			name: "unknown falls back to weekly default",
			freq: models.Frequency("hourly"),
			want: models.RecurrenceState{
				Preset: models.PresetWeeklyOnDay, Interval: 1,
				Unit: models.UnitWeek, ByDay: []int{thursday},
				EndCondition: models.EndNever,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FromLegacyFrequency(tt.freq, ref)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromLegacyFrequency(%q) = %+v, want %+v", tt.freq, got, tt.want)
			}
		})
	}
}

func TestDecodeOrLegacy(t *testing.T) {
	t.Parallel()

	ref := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)

	// A rule string wins over the legacy enum.
	got := DecodeOrLegacy("RRULE:FREQ=MONTHLY;INTERVAL=1", models.FrequencyDaily, ref)
	if got.Unit != models.UnitMonth {
		t.Errorf("expected rule string to win, got unit %q", got.Unit)
	}

	// Without a rule string the legacy enum decides.
	got = DecodeOrLegacy("", models.FrequencyDaily, ref)
	if got.Unit != models.UnitDay || got.Interval != 1 {
		t.Errorf("expected daily fallback, got %+v", got)
	}
}

func TestToLegacyFrequency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state models.RecurrenceState
		want  models.Frequency
	}{
		{"day", models.RecurrenceState{Unit: models.UnitDay, Interval: 3}, models.FrequencyDaily},
		{"month", models.RecurrenceState{Unit: models.UnitMonth, Interval: 2}, models.FrequencyMonthly},
		{"week interval 1", models.RecurrenceState{Unit: models.UnitWeek, Interval: 1, ByDay: []int{1, 3}}, models.FrequencyWeekly},
		{"week interval 2", models.RecurrenceState{Unit: models.UnitWeek, Interval: 2}, models.FrequencyBiweekly},
		{"week interval 5 still biweekly", models.RecurrenceState{Unit: models.UnitWeek, Interval: 5}, models.FrequencyBiweekly},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ToLegacyFrequency(tt.state); got != tt.want {
				t.Errorf("ToLegacyFrequency() = %q, want %q", got, tt.want)
			}
		})
	}
}

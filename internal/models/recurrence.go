package models

// RecurrenceUnit is the repeat-every unit of a recurrence
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
)

// RecurrencePreset is a named, common recurrence shape. It is a display
// hint derived from the canonical fields and is never persisted.
type RecurrencePreset string

const (
	PresetDaily        RecurrencePreset = "daily"
	PresetWeeklyOnDay  RecurrencePreset = "weekly_on_day"
	PresetEveryWeekday RecurrencePreset = "every_weekday"
	PresetBiweekly     RecurrencePreset = "biweekly"
	PresetMonthly      RecurrencePreset = "monthly"
	PresetCustom       RecurrencePreset = "custom"
)

// EndCondition describes how a recurrence terminates
type EndCondition string

const (
	EndNever      EndCondition = "never"
	EndOnDate     EndCondition = "on_date"
	EndAfterCount EndCondition = "after_count"
)

// RecurrenceState is the editable, UI-facing description of a repeating
// schedule. ByDay holds weekday numbers 0-6 with Sunday = 0 and is only
// meaningful when Unit is week. EndDate and EndCount are mutually exclusive
// and only meaningful for their matching EndCondition.
type RecurrenceState struct {
	Preset       RecurrencePreset `json:"preset"`
	Interval     int              `json:"interval" validate:"min=1"`
	Unit         RecurrenceUnit   `json:"unit" validate:"recurrence_unit"`
	ByDay        []int            `json:"by_day" validate:"dive,min=0,max=6"`
	EndCondition EndCondition     `json:"end_condition" validate:"end_condition"`
	EndDate      string           `json:"end_date,omitempty"`
	EndCount     int              `json:"end_count,omitempty"`
}

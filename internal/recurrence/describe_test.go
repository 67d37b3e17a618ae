package recurrence

import (
	"testing"

	"github.com/flowplan/flowplan/internal/models"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state models.RecurrenceState
		want  string
	}{
		{
			name:  "daily",
			state: models.RecurrenceState{Unit: models.UnitDay, Interval: 1},
			want:  "Daily",
		},
		{
			name:  "every n days",
			state: models.RecurrenceState{Unit: models.UnitDay, Interval: 3},
			want:  "Every 3 days",
		},
		{
			name:  "monthly",
			state: models.RecurrenceState{Unit: models.UnitMonth, Interval: 1},
			want:  "Monthly",
		},
		{
			name:  "every n months",
			state: models.RecurrenceState{Unit: models.UnitMonth, Interval: 6},
			want:  "Every 6 months",
		},
		{
			name:  "every weekday",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 1, ByDay: []int{1, 2, 3, 4, 5}},
			want:  "Every weekday",
		},
		{
			name:  "weekly no days",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 1},
			want:  "Weekly",
		},
		{
			name:  "weekly single day uses full name",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 1, ByDay: []int{4}},
			want:  "Weekly on Thursday",
		},
		{
			name:  "weekly multiple days use short names monday first",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 1, ByDay: []int{5, 1, 3}},
			want:  "Weekly on Mon, Wed, Fri",
		},
		{
			name:  "sunday listed last",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 1, ByDay: []int{0, 6}},
			want:  "Weekly on Sat, Sun",
		},
		{
			name:  "biweekly single day",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 2, ByDay: []int{2}},
			want:  "Biweekly on Tuesday",
		},
		{
			name:  "every n weeks",
			state: models.RecurrenceState{Unit: models.UnitWeek, Interval: 3, ByDay: []int{1}},
			want:  "Every 3 weeks on Monday",
		},
		{
			name: "count suffix",
			state: models.RecurrenceState{
				Unit: models.UnitWeek, Interval: 1, ByDay: []int{1},
				EndCondition: models.EndAfterCount, EndCount: 10,
			},
			want: "Weekly on Monday ×10",
		},
		{
			name: "until suffix",
			state: models.RecurrenceState{
				Unit: models.UnitDay, Interval: 1,
				EndCondition: models.EndOnDate, EndDate: "2026-12-31",
			},
			want: "Daily until 2026-12-31",
		},
		{
			name: "on_date without a date has no suffix",
			state: models.RecurrenceState{
				Unit: models.UnitDay, Interval: 1,
				EndCondition: models.EndOnDate,
			},
			want: "Daily",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Describe(tt.state); got != tt.want {
				t.Errorf("Describe(%+v) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

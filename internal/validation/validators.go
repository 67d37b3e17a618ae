// Package validation guards the item-management boundary. The recurrence
// codec itself stays lenient and absorbs malformed rule strings rather
// than failing, so form-level checks live here, on the caller's side.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/flowplan/flowplan/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	register := func(tag string, fn validator.Func) {
		if err := Validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}

	register("recurrence_unit", validateRecurrenceUnit)
	register("end_condition", validateEndCondition)
	register("recovery_policy", validateRecoveryPolicy)
	register("legacy_frequency", validateLegacyFrequency)
	register("source_type", validateSourceType)
	register("entity_type", validateEntityType)
	register("edit_scope", validateEditScope)
}

func validateRecurrenceUnit(fl validator.FieldLevel) bool {
	switch models.RecurrenceUnit(fl.Field().String()) {
	case models.UnitDay, models.UnitWeek, models.UnitMonth:
		return true
	default:
		return false
	}
}

func validateEndCondition(fl validator.FieldLevel) bool {
	switch models.EndCondition(fl.Field().String()) {
	case models.EndNever, models.EndOnDate, models.EndAfterCount:
		return true
	default:
		return false
	}
}

func validateRecoveryPolicy(fl validator.FieldLevel) bool {
	switch models.RecoveryPolicy(fl.Field().String()) {
	case models.RecoverySkip, models.RecoveryRecover:
		return true
	default:
		return false
	}
}

func validateLegacyFrequency(fl validator.FieldLevel) bool {
	switch models.Frequency(fl.Field().String()) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly:
		return true
	default:
		return false
	}
}

func validateSourceType(fl validator.FieldLevel) bool {
	switch models.SourceType(fl.Field().String()) {
	case models.SourceTask, models.SourceHabit:
		return true
	default:
		return false
	}
}

func validateEntityType(fl validator.FieldLevel) bool {
	switch models.EntityType(fl.Field().String()) {
	case models.EntityTask, models.EntityHabit, models.EntityEvent, models.EntityOccurrence:
		return true
	default:
		return false
	}
}

func validateEditScope(fl validator.FieldLevel) bool {
	switch models.EditScope(fl.Field().String()) {
	case models.ScopeSingle, models.ScopeFollowing, models.ScopeSeries:
		return true
	default:
		return false
	}
}

// ValidateState checks the cross-field invariants of a recurrence state
// that struct tags cannot express: ByDay is only meaningful for weekly
// recurrences, and the end-condition fields are mutually exclusive.
func ValidateState(state models.RecurrenceState) error {
	if err := Validate.Struct(state); err != nil {
		return fmt.Errorf("invalid recurrence state: %w", err)
	}

	if state.Unit != models.UnitWeek && len(state.ByDay) > 0 {
		return fmt.Errorf("by_day is only valid for weekly recurrences (unit is %q)", state.Unit)
	}

	switch state.EndCondition {
	case models.EndOnDate:
		if state.EndDate == "" {
			return fmt.Errorf("end_date is required when end_condition is on_date")
		}
		if state.EndCount != 0 {
			return fmt.Errorf("end_count must be unset when end_condition is on_date")
		}
	case models.EndAfterCount:
		if state.EndCount <= 0 {
			return fmt.Errorf("end_count must be positive when end_condition is after_count")
		}
		if state.EndDate != "" {
			return fmt.Errorf("end_date must be unset when end_condition is after_count")
		}
	case models.EndNever:
		if state.EndDate != "" || state.EndCount != 0 {
			return fmt.Errorf("end_date and end_count must be unset when end_condition is never")
		}
	}

	return nil
}

// ValidatePatternInput checks a pattern specification before it reaches
// the deduplication store
func ValidatePatternInput(input models.RecurrencePatternInput) error {
	if err := Validate.Struct(input); err != nil {
		return fmt.Errorf("invalid pattern input: %w", err)
	}
	return nil
}

package recurrence

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/flowplan/flowplan/internal/models"
)

// patternSignature is the fixed-shape document a fingerprint is computed
// from. Field order and the sort on PreferredDays are load-bearing: two
// logically identical specifications must serialize byte-for-byte
// identically regardless of how the caller ordered its day array.
type patternSignature struct {
	RecurrenceRule       string `json:"recurrenceRule"`
	RecoveryPolicy       string `json:"recoveryPolicy"`
	Frequency            string `json:"frequency"`
	RepeatsPerPeriod     int    `json:"repeatsPerPeriod"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate"`
	PreferredWindowStart string `json:"preferredWindowStart"`
	PreferredWindowEnd   string `json:"preferredWindowEnd"`
	PreferredDays        []int  `json:"preferredDays"`
	Timezone             string `json:"timezone"`
}

// Fingerprint computes the deterministic dedup digest of a pattern
// specification. Any field value change, including a timezone-only change,
// produces a different fingerprint.
func Fingerprint(input models.RecurrencePatternInput) string {
	days := append([]int(nil), input.PreferredDays...)
	sort.Ints(days)
	if days == nil {
		days = []int{}
	}

	policy := input.RecoveryPolicy
	if policy == "" {
		policy = models.RecoverySkip
	}

	sig := patternSignature{
		RecurrenceRule:       input.RecurrenceRule,
		RecoveryPolicy:       string(policy),
		Frequency:            string(input.Frequency),
		RepeatsPerPeriod:     input.RepeatsPerPeriod,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		PreferredWindowStart: input.PreferredWindowStart,
		PreferredWindowEnd:   input.PreferredWindowEnd,
		PreferredDays:        days,
		Timezone:             input.Timezone,
	}

	// Marshaling a struct of strings and ints cannot fail.
	raw, _ := json.Marshal(sig)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowplan/flowplan/internal/models"
	"github.com/flowplan/flowplan/internal/recurrence"
	"github.com/flowplan/flowplan/internal/validation"
)

// NewRuleCmd creates the rule command with encode, decode, and describe
// subcommands. All three are offline: they exercise the codec only.
func NewRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Encode, decode, and describe recurrence rules",
	}
	cmd.AddCommand(newRuleEncodeCmd())
	cmd.AddCommand(newRuleDecodeCmd())
	cmd.AddCommand(newRuleDescribeCmd())
	return cmd
}

func newRuleEncodeCmd() *cobra.Command {
	var (
		unit     string
		interval int
		days     string
		end      string
		endDate  string
		endCount int
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a recurrence state to its canonical rule string",
		RunE: func(cmd *cobra.Command, args []string) error {
			byDay, err := parseDays(days)
			if err != nil {
				return err
			}
			state := models.RecurrenceState{
				Interval:     interval,
				Unit:         models.RecurrenceUnit(unit),
				ByDay:        byDay,
				EndCondition: models.EndCondition(end),
				EndDate:      endDate,
				EndCount:     endCount,
			}
			state.Preset = recurrence.DetectPreset(state)
			if err := validation.ValidateState(state); err != nil {
				return err
			}
			fmt.Println(recurrence.Encode(state))
			return nil
		},
	}
	cmd.Flags().StringVar(&unit, "unit", "week", "repeat unit: day, week, or month")
	cmd.Flags().IntVar(&interval, "interval", 1, "repeat every N units")
	cmd.Flags().StringVar(&days, "days", "", "comma-separated weekday numbers, 0 = Sunday (week unit only)")
	cmd.Flags().StringVar(&end, "end", "never", "end condition: never, on_date, or after_count")
	cmd.Flags().StringVar(&endDate, "end-date", "", "end date (YYYY-MM-DD, with --end on_date)")
	cmd.Flags().IntVar(&endCount, "end-count", 0, "occurrence count (with --end after_count)")
	return cmd
}

func newRuleDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode RULE",
		Short: "Decode a rule string into its recurrence state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := recurrence.Decode(args[0])
			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal state: %w", err)
			}
			fmt.Println(string(out))
			fmt.Printf("description: %s\n", recurrence.Describe(state))
			return nil
		},
	}
}

func newRuleDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe RULE",
		Short: "Render the human-readable label for a rule string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(recurrence.Describe(recurrence.Decode(args[0])))
			return nil
		},
	}
}

func parseDays(days string) ([]int, error) {
	if strings.TrimSpace(days) == "" {
		return nil, nil
	}
	var parsed []int
	for _, part := range strings.Split(days, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid day %q: %w", part, err)
		}
		parsed = append(parsed, day)
	}
	return parsed, nil
}

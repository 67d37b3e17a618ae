package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowplan/flowplan/internal/recurrence"
)

// NewPresetsCmd creates the presets command
func NewPresetsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the canonical recurrence presets for a reference date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				ref = parsed
			}
			for _, option := range recurrence.PresetOptions(ref) {
				fmt.Printf("%-15s %-30s %s\n", option.Preset, option.Label, recurrence.Encode(option.State))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD, default today)")
	return cmd
}

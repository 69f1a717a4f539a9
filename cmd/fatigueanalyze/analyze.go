package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	fatiguelog "github.com/avfatigue/fatigue-core/internal/log"
	"github.com/avfatigue/fatigue-core/internal/rostersim"
	"github.com/avfatigue/fatigue-core/pkg/paramconfig"
)

var (
	analyzeRosterPath string
	analyzeParamsPath string
	analyzePreset      string
	analyzeStrideMin   float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the fatigue simulation core against a roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := loadRosterYAML(analyzeRosterPath)
		if err != nil {
			return err
		}

		var provider paramconfig.Provider
		if analyzeParamsPath != "" {
			provider = paramconfig.NewFileProvider(analyzeParamsPath)
		} else {
			provider = paramconfig.PresetProvider{Name: analyzePreset}
		}
		params, err := provider.Load()
		if err != nil {
			return err
		}

		fatiguelog.Infof("analyzing roster %q (%d duties) with preset %q", roster.RosterID, len(roster.Duties), params.Preset)

		analysis, err := rostersim.Analyze(roster, rostersim.Options{
			Params:        params,
			StrideMinutes: analyzeStrideMin,
		})
		if err != nil && !isCancelled(err) {
			return err
		}
		if isCancelled(err) {
			fatiguelog.Warnf("analysis cancelled after duty %q", analysis.CompletedThroughDutyID)
		}

		printAnalysis(analysis)
		return nil
	},
}

func isCancelled(err error) bool {
	fe, ok := err.(*fatigue.Error)
	return ok && fe != nil && fe.Kind == fatigue.KindCancelled
}

func printAnalysis(a fatigue.MonthlyAnalysis) {
	fmt.Printf("Roster %s (pilot %s): %d duties simulated\n", a.Roster.RosterID, a.Roster.PilotID, len(a.DutyTimelines))
	fmt.Printf("  risk tally: low=%d moderate=%d high=%d critical=%d extreme=%d\n",
		a.LowCount, a.ModerateCount, a.HighCount, a.CriticalCount, a.ExtremeCount)
	fmt.Printf("  worst duty: %s\n", a.WorstDutyID)
	fmt.Printf("  pinch events: %d\n", a.TotalPinchEvents)
	fmt.Printf("  avg sleep/night: %.2fh   max sleep debt: %.2fh\n", a.AvgSleepPerNightH, a.MaxSleepDebtH)
	for _, r := range a.RestPeriods {
		status := "compliant"
		if !r.IsCompliant {
			status = "NON-COMPLIANT"
		}
		fmt.Printf("  rest %s->%s: %.1fh (%s) [%s]\n", r.PreviousDutyID, r.NextDutyID, r.ActualRestHours(), r.Type, status)
		for _, v := range r.Violations {
			fmt.Printf("      - %s\n", v)
		}
	}
	for _, d := range a.Diagnostics {
		fmt.Printf("  diagnostic (%s): %s\n", d.DutyID, d.Message)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRosterPath, "roster", "", "path to a roster YAML file")
	analyzeCmd.Flags().StringVar(&analyzeParamsPath, "params", "", "path to a paramconfig YAML file (overrides --preset)")
	analyzeCmd.Flags().StringVar(&analyzePreset, "preset", "default", "named parameter preset: default, conservative, liberal, research")
	analyzeCmd.Flags().Float64Var(&analyzeStrideMin, "stride-minutes", 5, "duty simulation sample interval in minutes (0,15]")
	analyzeCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(analyzeCmd)
}

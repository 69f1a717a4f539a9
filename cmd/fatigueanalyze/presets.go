package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	fatiguelog "github.com/avfatigue/fatigue-core/internal/log"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the named parameter presets and their key thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range []string{"default", "conservative", "liberal", "research"} {
			p, ok := fatigue.PresetByName(name)
			if !ok {
				fatiguelog.Warnf("unknown preset %q", name)
				continue
			}
			fmt.Printf("%-13s risk low>=%.0f moderate>=%.0f high>=%.0f critical>=%.0f  tau_wake=%.1fh debt_decay=%.2f/day\n",
				p.Preset, p.Risk.LowMin, p.Risk.ModerateMin, p.Risk.HighMin, p.Risk.CriticalMin,
				p.Homeostatic.TauWakeHours, p.SleepDebt.DecayRatePerDay)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

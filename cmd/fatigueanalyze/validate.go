package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avfatigue/fatigue-core/internal/fatigue"
	fatiguelog "github.com/avfatigue/fatigue-core/internal/log"
)

var validateRosterPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a roster file without running the simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := loadRosterYAML(validateRosterPath)
		if err != nil {
			return err
		}
		if err := fatigue.ValidateRoster(roster); err != nil {
			return err
		}
		fatiguelog.Infof("roster %q: %d duties, all invariants satisfied", roster.RosterID, len(roster.Duties))
		fmt.Printf("OK: roster %q (%d duties)\n", roster.RosterID, len(roster.Duties))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateRosterPath, "roster", "", "path to a roster YAML file")
	validateCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(validateCmd)
}

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/avfatigue/fatigue-core/internal/constants"
	fatiguelog "github.com/avfatigue/fatigue-core/internal/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:     "fatigueanalyze",
	Short:   "Airline pilot fatigue risk assessment core",
	Version: constants.Version,
	Long: `fatigueanalyze runs the fatigue simulation core against a roster and
reports the resulting monthly fatigue analysis: per-duty performance
timelines, pinch events, sleep debt, and EASA ORO.FTL.235 rest-compliance
findings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // optional .env of defaults; absence is not an error
		return fatiguelog.Init(debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		fatiguelog.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose (development-mode) logging")
}

// Package risk classifies a landing-performance score into the
// categorical risk levels of spec §4.1, the same breakpoint-table shape
// the teacher repo uses to turn a raw pollutant concentration into an
// EPA Air Quality Index category.
package risk

import "github.com/avfatigue/fatigue-core/internal/fatigue"

// Classify maps a 0-100 performance score to a RiskLevel using the
// configured thresholds.
func Classify(performance float64, t fatigue.RiskThresholds) fatigue.RiskLevel {
	switch {
	case performance >= t.LowMin:
		return fatigue.RiskLow
	case performance >= t.ModerateMin:
		return fatigue.RiskModerate
	case performance >= t.HighMin:
		return fatigue.RiskHigh
	case performance >= t.CriticalMin:
		return fatigue.RiskCritical
	default:
		return fatigue.RiskExtreme
	}
}

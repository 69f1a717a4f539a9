package fatigue

// Parameters bundles every tunable constant of the biomathematical model
// and its derived calculators. It is threaded through the core as an
// immutable reference — see spec §9 "Global state: the core holds none."
type Parameters struct {
	Preset string

	Homeostatic  HomeostaticParams
	Circadian    CircadianParams
	Inertia      InertiaParams
	Weights      WeightParams
	SleepDebt    SleepDebtParams
	JetLag       JetLagParams
	SleepQuality SleepQualityParams
	Risk         RiskThresholds
}

type HomeostaticParams struct {
	SMax              float64
	SMin              float64
	TauWakeHours      float64
	TauSleepHours     float64
	BaselineSleepNeed float64
}

type CircadianParams struct {
	// AcrophaseHours is the configured nominal acrophase (17:00 per the
	// literature default). AcrophaseEffectiveHours is the internally
	// shifted value actually used by the evaluator (§9 open question 1:
	// the shift is retained but exposed here as a named parameter rather
	// than a silent magic number).
	AcrophaseHours          float64
	AcrophaseEffectiveHours float64
	Amplitude               float64
	AmplitudeEffective      float64
	PeriodHours             float64
	WOCLStartHour           float64 // inclusive, home-base local
	WOCLEndHour             float64 // exclusive, home-base local
}

type InertiaParams struct {
	DurationMinutes float64
	WMax            float64
}

type WeightParams struct {
	Homeostatic     float64
	Circadian       float64
	TimeOnTaskRate  float64 // per hour, linear decrement
}

type SleepDebtParams struct {
	DecayRatePerDay float64
}

type JetLagParams struct {
	WestwardHoursPerDay float64
	EastwardHoursPerDay float64
}

// SleepQualityParams holds the multiplicative-factor inputs to §4.3.
type SleepQualityParams struct {
	BaseEfficiency map[Environment]float64

	CircadianMisalignmentMaxPenalty float64 // up to 0.15 reduction

	LateOnsetFloor float64 // 0.93
	LateOnsetCeil  float64 // 1.00
	LateOnsetHour  float64 // drift begins past 01:00 local

	RecoveryBoostUnder2h float64 // 1.05
	RecoveryBoostUnder4h float64 // 1.03

	TimePressureFloor           float64 // 0.88
	TimePressureSafeHoursAhead  float64 // >= 6h until next duty -> 1.00

	InsufficientFloor    float64 // 0.75
	InsufficientCeilH    float64 // durations below 6h are scaled

	FactorClampLow  float64 // 0.65
	FactorClampHigh float64 // 1.10
}

// RiskThresholds are the 0-100 performance-scale breakpoints from §4.1.
type RiskThresholds struct {
	LowMin      float64 // >= this -> low
	ModerateMin float64 // >= this -> moderate
	HighMin     float64 // >= this -> high
	CriticalMin float64 // >= this -> critical, else extreme
}

// DefaultParameters returns the literature-grounded default preset.
func DefaultParameters() Parameters {
	return Parameters{
		Preset: "default",
		Homeostatic: HomeostaticParams{
			SMax:              1.0,
			SMin:              0.0,
			TauWakeHours:      18.2,
			TauSleepHours:     4.2,
			BaselineSleepNeed: 8.0,
		},
		Circadian: CircadianParams{
			AcrophaseHours:          17.0,
			AcrophaseEffectiveHours: 16.0,
			Amplitude:               0.5,
			AmplitudeEffective:      0.55,
			PeriodHours:             24.0,
			WOCLStartHour:           2.0,
			WOCLEndHour:             6.0,
		},
		Inertia: InertiaParams{
			DurationMinutes: 30.0,
			WMax:            0.30,
		},
		Weights: WeightParams{
			Homeostatic:    0.6,
			Circadian:      0.4,
			TimeOnTaskRate: 0.008,
		},
		SleepDebt: SleepDebtParams{
			DecayRatePerDay: 0.5,
		},
		JetLag: JetLagParams{
			WestwardHoursPerDay: 1.5,
			EastwardHoursPerDay: 1.0,
		},
		SleepQuality: SleepQualityParams{
			BaseEfficiency: map[Environment]float64{
				EnvHome:         0.95,
				EnvHotel:        0.88,
				EnvCrewHouse:    0.90,
				EnvAirportHotel: 0.85,
				EnvCrewRest:     0.70,
			},
			CircadianMisalignmentMaxPenalty: 0.15,
			LateOnsetFloor:                  0.93,
			LateOnsetCeil:                   1.00,
			LateOnsetHour:                   1.0,
			RecoveryBoostUnder2h:            1.05,
			RecoveryBoostUnder4h:            1.03,
			TimePressureFloor:               0.88,
			TimePressureSafeHoursAhead:      6.0,
			InsufficientFloor:               0.75,
			InsufficientCeilH:               6.0,
			FactorClampLow:                  0.65,
			FactorClampHigh:                 1.10,
		},
		Risk: RiskThresholds{
			LowMin:      75,
			ModerateMin: 65,
			HighMin:     55,
			CriticalMin: 45,
		},
	}
}

// ConservativePreset widens safety margins: sleep is harder to recover
// and inertia is stronger, so the model is quicker to flag risk.
func ConservativePreset() Parameters {
	p := DefaultParameters()
	p.Preset = "conservative"
	p.Homeostatic.TauWakeHours = 16.5
	p.SleepDebt.DecayRatePerDay = 0.35
	p.Inertia.WMax = 0.38
	p.Risk.LowMin = 78
	p.Risk.ModerateMin = 68
	p.Risk.HighMin = 58
	p.Risk.CriticalMin = 48
	return p
}

// LiberalPreset narrows margins: faster recovery, lower inertia weight.
func LiberalPreset() Parameters {
	p := DefaultParameters()
	p.Preset = "liberal"
	p.Homeostatic.TauWakeHours = 19.8
	p.SleepDebt.DecayRatePerDay = 0.65
	p.Inertia.WMax = 0.22
	p.Risk.LowMin = 72
	p.Risk.ModerateMin = 62
	p.Risk.HighMin = 52
	p.Risk.CriticalMin = 42
	return p
}

// ResearchPreset keeps the literature constants exactly as published,
// with no operational safety margin applied on top, for use in
// validation against peer-reviewed reference curves.
func ResearchPreset() Parameters {
	p := DefaultParameters()
	p.Preset = "research"
	p.Circadian.AcrophaseEffectiveHours = p.Circadian.AcrophaseHours
	p.Circadian.AmplitudeEffective = p.Circadian.Amplitude
	return p
}

// PresetByName resolves one of the four named presets. An unknown name
// is a caller programming error, not a RosterValidation condition, so it
// reports false rather than returning an error.
func PresetByName(name string) (Parameters, bool) {
	switch name {
	case "", "default":
		return DefaultParameters(), true
	case "conservative":
		return ConservativePreset(), true
	case "liberal":
		return LiberalPreset(), true
	case "research":
		return ResearchPreset(), true
	default:
		return Parameters{}, false
	}
}

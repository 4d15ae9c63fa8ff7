package pet

import "time"

// Simulation constants
const (
	DefaultPetName = "Bookworm"
	MaxStat        = 100
	MinStat        = 0

	DefaultNeedLevel = 80 // starting value for every need on a fresh pet
	ReviveHealth     = 40 // health floor restored by a revival item

	// Needs decay rates (per elapsed whole day)
	HungerDecayPerDay      = 10
	EnergyDecayPerDay      = 8
	HappinessDecayPerDay   = 5
	CleanlinessDecayPerDay = 6

	// Sickness accumulation is deterministic: it builds while the pet is
	// neglected and recedes once the triggering needs recover.
	SicknessPerDay         = 10
	SicknessRecoveryPerDay = 5
	SicknessHungerTrigger  = 15 // hunger below this accumulates sickness
	SicknessDirtTrigger    = 20 // cleanliness below this accumulates sickness
	SicknessDangerLevel    = 80 // sickness at/above this drains health

	StarvationHealthPerDay = 8 // health loss per day at hunger 0
	SicknessHealthPerDay   = 5 // additional health loss per day while dangerously sick

	DecayTickUnit = 24 * time.Hour

	// Action effects and costs (care points)
	FeedCost           = 3
	FeedHungerGain     = 20
	FeedHappinessGain  = 5
	PlayCost           = 5
	PlayHappinessGain  = 15
	PlayEnergyDrain    = 10
	SleepEnergyGain    = 50
	SleepHappinessGain = 2

	// Reading rewards
	MinutesPerXP      = 5 // 1 XP per 5 minutes read
	MinutesPerPoint   = 2 // 1 care point per 2 minutes read
	BookBonusXP       = 50
	BookBonusPoints   = 25
	MaxSessionMinutes = 24 * 60 // longest session a single reward call accepts

	// Leveling
	BaseExperienceToNext = 100
	ExperiencePerLevel   = 50 // experienceToNext grows by this each level

	// Classifier thresholds
	HungerCriticalThreshold   = 15
	HungerWarningThreshold    = 30
	HealthCriticalThreshold   = 20
	HealthWarningThreshold    = 40
	SicknessCriticalThreshold = 80
	SicknessWarningThreshold  = 50
	EnergyWarningThreshold    = 10
	HappinessWarningThreshold = 20
	MoodSadBelow              = 30
	MoodHappyAbove            = 70
)

// Stage is the pet's evolution tier. It only ever advances.
type Stage int

const (
	StageBaby Stage = iota
	StageChild
	StageTeen
	StageAdult
	StageSage // final stage
)

// stageThreshold gates entry into a stage by level and books read.
type stageThreshold struct {
	Level int
	Books int
}

var stageThresholds = map[Stage]stageThreshold{
	StageChild: {Level: 3, Books: 1},
	StageTeen:  {Level: 6, Books: 5},
	StageAdult: {Level: 12, Books: 15},
	StageSage:  {Level: 20, Books: 30},
}

// StageName returns the display name for an evolution stage.
func StageName(s Stage) string {
	switch s {
	case StageBaby:
		return "Baby"
	case StageChild:
		return "Child"
	case StageTeen:
		return "Teen"
	case StageAdult:
		return "Adult"
	case StageSage:
		return "Sage"
	default:
		return "Unknown"
	}
}

package pet

// Mood is the qualitative label derived from the needs vector.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodDying   Mood = "dying"
	MoodDead    Mood = "dead"
)

// Alert severity levels.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert is one active condition derived from the needs vector. The
// classifier returns the full set; presentation decides what to show.
type Alert struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
}

// Status is the classifier output.
type Status struct {
	Mood   Mood    `json:"mood"`
	Alerts []Alert `json:"alerts,omitempty"`
}

// Classify derives the mood label and the active alert set from the
// current needs vector. Pure; read-only over the pet.
func Classify(p *Pet) Status {
	if !p.Alive {
		return Status{
			Mood:   MoodDead,
			Alerts: []Alert{{Kind: "death", Severity: SeverityCritical}},
		}
	}

	var alerts []Alert
	switch {
	case p.Hunger < HungerCriticalThreshold:
		alerts = append(alerts, Alert{Kind: "hunger", Severity: SeverityCritical})
	case p.Hunger < HungerWarningThreshold:
		alerts = append(alerts, Alert{Kind: "hunger", Severity: SeverityWarning})
	}
	switch {
	case p.Health < HealthCriticalThreshold:
		alerts = append(alerts, Alert{Kind: "health", Severity: SeverityCritical})
	case p.Health < HealthWarningThreshold:
		alerts = append(alerts, Alert{Kind: "health", Severity: SeverityWarning})
	}
	switch {
	case p.Sickness > SicknessCriticalThreshold:
		alerts = append(alerts, Alert{Kind: "sickness", Severity: SeverityCritical})
	case p.Sickness > SicknessWarningThreshold:
		alerts = append(alerts, Alert{Kind: "sickness", Severity: SeverityWarning})
	}
	if p.Energy < EnergyWarningThreshold {
		alerts = append(alerts, Alert{Kind: "energy", Severity: SeverityWarning})
	}
	if p.Happiness < HappinessWarningThreshold {
		alerts = append(alerts, Alert{Kind: "happiness", Severity: SeverityWarning})
	}

	mood := MoodNeutral
	switch {
	case p.Happiness < MoodSadBelow:
		mood = MoodSad
		// A sad pet with a critical body is on its way out.
		if p.Health < HealthCriticalThreshold || p.Hunger < HungerCriticalThreshold {
			mood = MoodDying
		}
	case p.Happiness > MoodHappyAbove:
		mood = MoodHappy
	}

	return Status{Mood: mood, Alerts: alerts}
}

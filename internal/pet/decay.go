package pet

import "time"

// ApplyDecay ages the pet's needs by the whole days elapsed since
// LastDecayTick and returns how many days were applied. The tick time only
// advances by the consumed whole days, so the fractional remainder carries
// into the next call: applying decay for a duration D once produces the
// same record as applying it for D/2 twice.
func ApplyDecay(p *Pet, now time.Time) int {
	if !p.Alive {
		return 0
	}
	elapsed := now.Sub(p.LastDecayTick)
	days := int(elapsed / DecayTickUnit)
	if days <= 0 {
		return 0
	}

	for i := 0; i < days; i++ {
		tick := p.LastDecayTick.Add(time.Duration(i+1) * DecayTickUnit)
		decayOneDay(p)
		if p.Health <= MinStat {
			p.Die(tick)
			break
		}
	}

	p.LastDecayTick = p.LastDecayTick.Add(time.Duration(days) * DecayTickUnit)
	return days
}

// decayOneDay applies one day of the canonical rate table. Order matters:
// the day's needs decay first, then sickness reacts to the decayed needs,
// then health reacts to hunger and sickness.
func decayOneDay(p *Pet) {
	p.Hunger = Clamp(p.Hunger - HungerDecayPerDay)
	p.Energy = Clamp(p.Energy - EnergyDecayPerDay)
	p.Happiness = Clamp(p.Happiness - HappinessDecayPerDay)
	p.Cleanliness = Clamp(p.Cleanliness - CleanlinessDecayPerDay)

	if p.Hunger < SicknessHungerTrigger || p.Cleanliness < SicknessDirtTrigger {
		p.Sickness = Clamp(p.Sickness + SicknessPerDay)
	} else {
		p.Sickness = Clamp(p.Sickness - SicknessRecoveryPerDay)
	}

	if p.Hunger <= MinStat {
		p.Health = Clamp(p.Health - StarvationHealthPerDay)
	}
	if p.Sickness >= SicknessDangerLevel {
		p.Health = Clamp(p.Health - SicknessHealthPerDay)
	}
}

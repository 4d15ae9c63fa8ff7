package pet

// ExperienceToNext returns the XP required to clear the given level. The
// curve is linear and non-decreasing in level.
func ExperienceToNext(level int) int {
	if level < 1 {
		level = 1
	}
	return BaseExperienceToNext + (level-1)*ExperiencePerLevel
}

// GrantExperience adds XP and resolves the level-up cascade: one large
// grant may clear several levels. After it returns, Experience is always
// strictly below ExperienceToNext. Returns the number of levels gained.
func GrantExperience(p *Pet, xp int) int {
	if xp <= 0 {
		return 0
	}
	p.Experience += xp
	levels := 0
	for p.Experience >= p.ExperienceToNext {
		p.Experience -= p.ExperienceToNext
		p.Level++
		p.ExperienceToNext = ExperienceToNext(p.Level)
		levels++
	}
	return levels
}

// NextStage returns the stage after the current one, or the current stage
// when the pet is already at the final tier.
func NextStage(s Stage) Stage {
	if s >= StageSage {
		return StageSage
	}
	return s + 1
}

// CanEvolve reports whether the pet meets the next stage's level and
// books-read thresholds. Pure: it inspects, never mutates. A pet at the
// final stage can never evolve.
func CanEvolve(p *Pet) bool {
	if p.Stage >= StageSage {
		return false
	}
	threshold, ok := stageThresholds[NextStage(p.Stage)]
	if !ok {
		return false
	}
	return p.Level >= threshold.Level && p.TotalBooksRead >= threshold.Books
}

// Evolve advances the evolution stage by exactly one step when eligible and
// reports whether it did. Stages never regress.
func Evolve(p *Pet) bool {
	if !CanEvolve(p) {
		return false
	}
	p.Stage = NextStage(p.Stage)
	return true
}

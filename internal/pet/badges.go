package pet

// Badge ids awarded by the milestone rules below.
const (
	BadgeFirstBook      = "first_book"
	BadgeTenBooks       = "ten_books"
	BadgeFiftyBooks     = "fifty_books"
	BadgeThousandMin    = "thousand_minutes"
	BadgeLevelFive      = "level_5"
	BadgeLevelTen       = "level_10"
	BadgeLevelTwenty    = "level_20"
	BadgeFirstCoin      = "first_coin"
	BadgeFullEvolution  = "full_evolution"
)

// badgeRule pairs a badge id with its pure eligibility predicate.
type badgeRule struct {
	ID  string
	Met func(p *Pet) bool
}

var badgeRules = []badgeRule{
	{BadgeFirstBook, func(p *Pet) bool { return p.TotalBooksRead >= 1 }},
	{BadgeTenBooks, func(p *Pet) bool { return p.TotalBooksRead >= 10 }},
	{BadgeFiftyBooks, func(p *Pet) bool { return p.TotalBooksRead >= 50 }},
	{BadgeThousandMin, func(p *Pet) bool { return p.TotalReadingMinutes >= 1000 }},
	{BadgeLevelFive, func(p *Pet) bool { return p.Level >= 5 }},
	{BadgeLevelTen, func(p *Pet) bool { return p.Level >= 10 }},
	{BadgeLevelTwenty, func(p *Pet) bool { return p.Level >= 20 }},
	{BadgeFirstCoin, func(p *Pet) bool { return p.Coins >= 1 }},
	{BadgeFullEvolution, func(p *Pet) bool { return p.Stage == StageSage }},
}

// EvaluateBadges awards every milestone badge whose rule the pet now meets
// and returns the newly earned ids. Already-earned badges are kept.
func EvaluateBadges(p *Pet) []string {
	var earned []string
	for _, rule := range badgeRules {
		if p.HasBadge(rule.ID) {
			continue
		}
		if rule.Met(p) {
			p.AddBadge(rule.ID)
			earned = append(earned, rule.ID)
		}
	}
	return earned
}

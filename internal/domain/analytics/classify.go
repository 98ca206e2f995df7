// Package analytics derives dashboard view models from raw entity snapshots.
// Every function here is pure: no I/O, no clocks, and the same input always
// yields the same output.
package analytics

import "github.com/okian/staffboard/internal/domain/model"

// Tier is the performance tier of an engineer.
type Tier string

const (
	TierJunior       Tier = "Junior"
	TierIntermediate Tier = "Intermediate"
	TierSenior       Tier = "Senior"
	TierExpert       Tier = "Expert"
)

// tierRule is one step of the utilization step function.
type tierRule struct {
	tier       Tier
	minYears   int
	base       int
	perProject int
	limit      int
}

// tierRules is ordered from the highest experience threshold down.
var tierRules = []tierRule{
	{tier: TierExpert, minYears: 5, base: 90, perProject: 5, limit: 100},
	{tier: TierSenior, minYears: 3, base: 80, perProject: 7, limit: 95},
	{tier: TierIntermediate, minYears: 1, base: 70, perProject: 10, limit: 90},
	{tier: TierJunior, minYears: 0, base: 60, perProject: 15, limit: 85},
}

// Classification is the tier and utilization score of one engineer.
type Classification struct {
	Tier             Tier `json:"tier"`
	UtilizationScore int  `json:"utilization_score"`
}

// ClassifyEngineer maps experience and the number of active assignments to a
// tier and a capped utilization score.
func ClassifyEngineer(u model.User) Classification {
	return Classify(u.Experience, u.ActiveProjects())
}

// Classify is ClassifyEngineer on raw inputs.
func Classify(experience, activeProjects int) Classification {
	if activeProjects < 0 {
		activeProjects = 0
	}
	rule := ruleFor(experience)
	return Classification{
		Tier:             rule.tier,
		UtilizationScore: min(rule.base+rule.perProject*activeProjects, rule.limit),
	}
}

// TierCap returns the maximum utilization score reachable in tier t.
func TierCap(t Tier) int {
	for _, r := range tierRules {
		if r.tier == t {
			return r.limit
		}
	}
	return 0
}

func ruleFor(experience int) tierRule {
	for _, r := range tierRules {
		if experience >= r.minYears {
			return r
		}
	}
	// Negative experience never passes validation, but falls to the lowest tier.
	return tierRules[len(tierRules)-1]
}

// Engineers keeps the users holding the engineer role, preserving order.
func Engineers(users []model.User) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsEngineer() {
			out = append(out, u)
		}
	}
	return out
}

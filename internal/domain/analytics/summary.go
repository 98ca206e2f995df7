package analytics

import "github.com/okian/staffboard/internal/domain/model"

// Summary is the headline statistics block of the analytics view.
type Summary struct {
	TotalEngineers         int    `json:"total_engineers"`
	AverageUtilization     int    `json:"average_utilization"`
	AvgProjectsPerEngineer string `json:"avg_projects_per_engineer"`
	AvgExperience          string `json:"avg_experience"`
	UniqueSkillCount       int    `json:"unique_skill_count"`
}

// SummaryStatistics computes collection-wide means and counts. Projects per
// engineer counts active assignments. An empty input yields zeros and "0.0".
func SummaryStatistics(engineers []model.User) Summary {
	var sumScore, sumProjects, sumExperience int
	skills := make(map[string]struct{})
	for _, e := range engineers {
		active := e.ActiveProjects()
		sumScore += Classify(e.Experience, active).UtilizationScore
		sumProjects += active
		sumExperience += e.Experience
		for _, s := range e.DistinctSkills() {
			skills[s] = struct{}{}
		}
	}
	n := len(engineers)
	return Summary{
		TotalEngineers:         n,
		AverageUtilization:     RoundHalfUp(mean(float64(sumScore), n)),
		AvgProjectsPerEngineer: FormatOneDecimal(mean(float64(sumProjects), n)),
		AvgExperience:          FormatOneDecimal(mean(float64(sumExperience), n)),
		UniqueSkillCount:       len(skills),
	}
}

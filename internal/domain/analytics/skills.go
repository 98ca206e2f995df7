package analytics

import (
	"sort"

	"github.com/okian/staffboard/internal/domain/model"
)

// SkillCount is the number of distinct engineers holding a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SkillDistribution counts, per skill, the engineers that list it. An engineer
// listing a skill twice counts once. The result is ordered by count descending;
// equal counts keep the order in which skills were first seen.
func SkillDistribution(engineers []model.User) []SkillCount {
	index := make(map[string]int)
	var out []SkillCount
	for _, e := range engineers {
		for _, skill := range e.DistinctSkills() {
			i, ok := index[skill]
			if !ok {
				i = len(out)
				index[skill] = i
				out = append(out, SkillCount{Skill: skill})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if out == nil {
		out = []SkillCount{}
	}
	return out
}

// TopSkills returns the first n entries of dist. Non-positive n returns all.
func TopSkills(dist []SkillCount, n int) []SkillCount {
	if n <= 0 || n >= len(dist) {
		return dist
	}
	return dist[:n]
}

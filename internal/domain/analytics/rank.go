package analytics

import (
	"sort"

	"github.com/okian/staffboard/internal/domain/model"
)

// EngineerRank is one row of the engineer utilization table.
type EngineerRank struct {
	Rank           int      `json:"rank"`
	ID             model.ID `json:"id"`
	Name           string   `json:"name"`
	Designation    string   `json:"designation,omitempty"`
	Experience     int      `json:"experience"`
	ActiveProjects int      `json:"active_projects"`
	Classification
}

// RankEngineers classifies every engineer and orders them by utilization
// score descending, then name and id ascending. Equal scores share a rank and
// the next distinct score takes the following rank.
func RankEngineers(engineers []model.User) []EngineerRank {
	out := make([]EngineerRank, 0, len(engineers))
	for _, e := range engineers {
		active := e.ActiveProjects()
		out = append(out, EngineerRank{
			ID:             e.ID,
			Name:           e.Name,
			Designation:    e.Designation,
			Experience:     e.Experience,
			ActiveProjects: active,
			Classification: Classify(e.Experience, active),
		})
	}
	sort.Slice(out, func(i, j int) bool { return rankLess(out[i], out[j]) })
	assignRanks(out)
	return out
}

// rankLess reports whether a ranks before b.
func rankLess(a, b EngineerRank) bool {
	if a.UtilizationScore != b.UtilizationScore {
		return a.UtilizationScore > b.UtilizationScore
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

func assignRanks(rows []EngineerRank) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].UtilizationScore != rows[i-1].UtilizationScore {
			rank++
		}
		rows[i].Rank = rank
	}
}

package analytics

import "github.com/okian/staffboard/internal/domain/model"

// Experience bucket labels in display order.
const (
	RangeUnderOne    = "< 1 year"
	RangeOneToThree  = "1-3 years"
	RangeThreeToFive = "3-5 years"
	RangeFivePlus    = "5+ years"
)

// ExperienceBucket aggregates engineers whose experience falls in one range.
type ExperienceBucket struct {
	Range             string  `json:"range"`
	Count             int     `json:"count"`
	AvgActiveProjects float64 `json:"avg_active_projects"`
	AvgUtilization    float64 `json:"avg_utilization"`
}

type bucketAcc struct {
	count       int
	sumProjects int
	sumScore    int
}

// ExperienceBuckets groups engineers into the four experience ranges. All four
// ranges are always present. Averages are a plain sum over count per bucket,
// computed after accumulation, so any permutation of the input gives the
// same result.
func ExperienceBuckets(engineers []model.User) []ExperienceBucket {
	labels := [...]string{RangeUnderOne, RangeOneToThree, RangeThreeToFive, RangeFivePlus}
	var acc [len(labels)]bucketAcc

	for _, e := range engineers {
		active := e.ActiveProjects()
		a := &acc[bucketIndex(e.Experience)]
		a.count++
		a.sumProjects += active
		a.sumScore += Classify(e.Experience, active).UtilizationScore
	}

	out := make([]ExperienceBucket, len(labels))
	for i, label := range labels {
		out[i] = ExperienceBucket{
			Range:             label,
			Count:             acc[i].count,
			AvgActiveProjects: mean(float64(acc[i].sumProjects), acc[i].count),
			AvgUtilization:    mean(float64(acc[i].sumScore), acc[i].count),
		}
	}
	return out
}

func bucketIndex(years int) int {
	switch {
	case years < 1:
		return 0
	case years < 3:
		return 1
	case years < 5:
		return 2
	default:
		return 3
	}
}

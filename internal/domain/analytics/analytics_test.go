package analytics_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/staffboard/internal/domain/analytics"
	"github.com/okian/staffboard/internal/domain/model"
)

// engineer builds an engineer with the given number of active and ended assignments.
func engineer(id string, experience, active, ended int, skills ...string) model.User {
	u := model.User{ID: model.ID(id), Name: "eng-" + id, Role: model.RoleEngineer, Experience: experience}
	for i := 0; i < active; i++ {
		u.Projects = append(u.Projects, model.Assignment{ProjectID: model.ID(fmt.Sprintf("a%d", i))})
	}
	for i := 0; i < ended; i++ {
		u.Projects = append(u.Projects, model.Assignment{
			ProjectID: model.ID(fmt.Sprintf("e%d", i)),
			EndDate:   model.NewDate(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		})
	}
	for _, s := range skills {
		u.Skills = append(u.Skills, model.SkillName(s))
	}
	return u
}

func TestClassifyEngineer(t *testing.T) {
	Convey("Given engineers across the experience tiers", t, func() {
		Convey("An expert on two active projects is capped at 100", func() {
			c := analytics.ClassifyEngineer(engineer("1", 6, 2, 0))
			So(c, ShouldResemble, analytics.Classification{Tier: analytics.TierExpert, UtilizationScore: 100})
		})

		Convey("An intermediate on one active project scores 80", func() {
			c := analytics.ClassifyEngineer(engineer("1", 2, 1, 0))
			So(c, ShouldResemble, analytics.Classification{Tier: analytics.TierIntermediate, UtilizationScore: 80})
		})

		Convey("Ended assignments do not count as active", func() {
			c := analytics.ClassifyEngineer(engineer("1", 3, 1, 4))
			So(c, ShouldResemble, analytics.Classification{Tier: analytics.TierSenior, UtilizationScore: 87})
		})

		Convey("Tier boundaries follow the step function", func() {
			cases := []struct {
				years int
				tier  analytics.Tier
				base  int
			}{
				{0, analytics.TierJunior, 60},
				{1, analytics.TierIntermediate, 70},
				{2, analytics.TierIntermediate, 70},
				{3, analytics.TierSenior, 80},
				{4, analytics.TierSenior, 80},
				{5, analytics.TierExpert, 90},
				{30, analytics.TierExpert, 90},
			}
			for _, c := range cases {
				got := analytics.Classify(c.years, 0)
				So(got.Tier, ShouldEqual, c.tier)
				So(got.UtilizationScore, ShouldEqual, c.base)
			}
		})

		Convey("Scores never decrease with more projects and never pass the tier cap", func() {
			for _, years := range []int{0, 1, 3, 5} {
				prev := -1
				for active := 0; active <= 20; active++ {
					c := analytics.Classify(years, active)
					So(c.UtilizationScore, ShouldBeGreaterThanOrEqualTo, prev)
					So(c.UtilizationScore, ShouldBeLessThanOrEqualTo, analytics.TierCap(c.Tier))
					prev = c.UtilizationScore
				}
				So(prev, ShouldEqual, analytics.TierCap(analytics.Classify(years, 0).Tier))
			}
		})
	})
}

func TestSkillDistribution(t *testing.T) {
	Convey("Given engineers with overlapping skills", t, func() {
		Convey("React on three engineers and Go on one", func() {
			dist := analytics.SkillDistribution([]model.User{
				engineer("1", 1, 0, 0, "React"),
				engineer("2", 1, 0, 0, "Go", "React"),
				engineer("3", 1, 0, 0, "React", "React"),
			})
			So(dist, ShouldResemble, []analytics.SkillCount{{Skill: "React", Count: 3}, {Skill: "Go", Count: 1}})
		})

		Convey("Ties keep first-seen order", func() {
			dist := analytics.SkillDistribution([]model.User{
				engineer("1", 1, 0, 0, "Rust", "Go"),
				engineer("2", 1, 0, 0, "SQL"),
			})
			So(dist, ShouldResemble, []analytics.SkillCount{
				{Skill: "Rust", Count: 1}, {Skill: "Go", Count: 1}, {Skill: "SQL", Count: 1},
			})
			So(analytics.TopSkills(dist, 2), ShouldHaveLength, 2)
			So(analytics.TopSkills(dist, 0), ShouldHaveLength, 3)
		})

		Convey("Counts sum to each engineer's distinct skill count", func() {
			users := []model.User{
				engineer("1", 1, 0, 0, "A", "B", "A"),
				engineer("2", 1, 0, 0, "B", "C"),
				engineer("3", 1, 0, 0),
			}
			total := 0
			for _, c := range analytics.SkillDistribution(users) {
				total += c.Count
			}
			want := 0
			for _, u := range users {
				want += len(u.DistinctSkills())
			}
			So(total, ShouldEqual, want)
		})

		Convey("No engineers gives an empty distribution", func() {
			So(analytics.SkillDistribution(nil), ShouldBeEmpty)
		})
	})
}

func TestExperienceBuckets(t *testing.T) {
	Convey("Given a mixed engineer list", t, func() {
		users := []model.User{
			engineer("1", 0, 1, 0),
			engineer("2", 0, 2, 1),
			engineer("3", 2, 0, 0),
			engineer("4", 2, 3, 0),
			engineer("5", 2, 1, 0),
			engineer("6", 7, 2, 0),
		}

		buckets := analytics.ExperienceBuckets(users)

		Convey("Then all four ranges are reported in order", func() {
			So(buckets, ShouldHaveLength, 4)
			So(buckets[0].Range, ShouldEqual, analytics.RangeUnderOne)
			So(buckets[1].Range, ShouldEqual, analytics.RangeOneToThree)
			So(buckets[2].Range, ShouldEqual, analytics.RangeThreeToFive)
			So(buckets[3].Range, ShouldEqual, analytics.RangeFivePlus)
			So(buckets[2].Count, ShouldEqual, 0)
			So(buckets[2].AvgUtilization, ShouldEqual, 0)
		})

		Convey("Then averages are plain means per bucket", func() {
			So(buckets[0].Count, ShouldEqual, 2)
			So(buckets[0].AvgActiveProjects, ShouldEqual, 1.5)
			// Junior: min(60+15, 85)=75 and min(60+30, 85)=85.
			So(buckets[0].AvgUtilization, ShouldEqual, 80)
			// Intermediate: 70, 90 (capped from 100), 80.
			So(buckets[1].AvgUtilization, ShouldEqual, 80)
			So(buckets[1].AvgActiveProjects, ShouldAlmostEqual, 4.0/3.0, 1e-9)
		})

		Convey("Then any permutation gives the same averages", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 25; i++ {
				shuffled := append([]model.User(nil), users...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				got := analytics.ExperienceBuckets(shuffled)
				for j := range got {
					So(got[j].Count, ShouldEqual, buckets[j].Count)
					So(math.Abs(got[j].AvgActiveProjects-buckets[j].AvgActiveProjects), ShouldBeLessThan, 1e-9)
					So(math.Abs(got[j].AvgUtilization-buckets[j].AvgUtilization), ShouldBeLessThan, 1e-9)
				}
			}
		})
	})
}

func TestProjectStaffing(t *testing.T) {
	Convey("Given projects with different requirements", t, func() {
		withEngineers := func(n int) []model.ProjectEngineer {
			out := make([]model.ProjectEngineer, n)
			for i := range out {
				out[i] = model.ProjectEngineer{UserID: model.ID(fmt.Sprint(i))}
			}
			return out
		}

		Convey("Five required and four assigned is 80 percent", func() {
			p := model.Project{
				Requirements: []model.Requirement{{RequiredCount: 3}, {RequiredCount: 2}},
				Engineers:    withEngineers(4),
			}
			So(analytics.ProjectStaffing(p), ShouldResemble, analytics.Staffing{Required: 5, Assigned: 4, RatioPercent: 80})
		})

		Convey("Nothing required and nobody assigned is 0 percent", func() {
			So(analytics.ProjectStaffing(model.Project{}), ShouldResemble, analytics.Staffing{})
		})

		Convey("Nothing required but engineers assigned is 100 percent", func() {
			p := model.Project{Engineers: withEngineers(2)}
			So(analytics.ProjectStaffing(p).RatioPercent, ShouldEqual, 100)
		})

		Convey("A zero required count contributes one head", func() {
			p := model.Project{
				Requirements: []model.Requirement{{Designation: "Dev"}, {RequiredCount: 2}},
				Engineers:    withEngineers(1),
			}
			s := analytics.ProjectStaffing(p)
			So(s.Required, ShouldEqual, 3)
			// 1/3 = 33.33 rounds to 33.
			So(s.RatioPercent, ShouldEqual, 33)
		})

		Convey("Halves round up", func() {
			p := model.Project{
				Requirements: []model.Requirement{{RequiredCount: 8}},
				Engineers:    withEngineers(1),
			}
			// 12.5 rounds to 13.
			So(analytics.ProjectStaffing(p).RatioPercent, ShouldEqual, 13)
		})

		Convey("StaffingOverview keeps input order and labels rows", func() {
			rows := analytics.StaffingOverview([]model.Project{
				{ID: "p2", Name: "Two", Status: model.ProjectStatusClosed},
				{ID: "p1", Name: "One", Engineers: withEngineers(1)},
			})
			So(rows, ShouldHaveLength, 2)
			So(rows[0].ProjectID, ShouldEqual, model.ID("p2"))
			So(rows[1].RatioPercent, ShouldEqual, 100)
		})
	})
}

func TestSummaryStatistics(t *testing.T) {
	Convey("Given no engineers", t, func() {
		s := analytics.SummaryStatistics(nil)

		Convey("Then zero defaults are returned", func() {
			So(s, ShouldResemble, analytics.Summary{
				AvgProjectsPerEngineer: "0.0",
				AvgExperience:          "0.0",
			})
		})
	})

	Convey("Given a few engineers", t, func() {
		s := analytics.SummaryStatistics([]model.User{
			engineer("1", 6, 2, 0, "Go", "React"),
			engineer("2", 2, 1, 3, "React"),
			engineer("3", 0, 0, 0),
			engineer("4", 1, 0, 0, "SQL"),
		})

		Convey("Then means and counts are computed over the full collection", func() {
			So(s.TotalEngineers, ShouldEqual, 4)
			// (100 + 80 + 60 + 70) / 4 = 77.5 rounds to 78.
			So(s.AverageUtilization, ShouldEqual, 78)
			// (2 + 1 + 0 + 0) / 4 = 0.75 renders as 0.8.
			So(s.AvgProjectsPerEngineer, ShouldEqual, "0.8")
			// (6 + 2 + 0 + 1) / 4 = 2.25 renders as 2.3.
			So(s.AvgExperience, ShouldEqual, "2.3")
			So(s.UniqueSkillCount, ShouldEqual, 3)
		})
	})
}

func TestRankEngineers(t *testing.T) {
	Convey("Given engineers with tied scores", t, func() {
		a := engineer("3", 6, 2, 0)
		a.Name = "Zed"
		b := engineer("2", 6, 2, 0)
		b.Name = "Amy"
		c := engineer("1", 0, 0, 0)
		c.Name = "Bob"
		d := engineer("0", 6, 2, 0)
		d.Name = "Amy"

		rows := analytics.RankEngineers([]model.User{c, a, b, d})

		Convey("Then rows are ordered by score, name and id", func() {
			So(rows, ShouldHaveLength, 4)
			So(rows[0].ID, ShouldEqual, model.ID("0"))
			So(rows[1].ID, ShouldEqual, model.ID("2"))
			So(rows[2].ID, ShouldEqual, model.ID("3"))
			So(rows[3].ID, ShouldEqual, model.ID("1"))
		})

		Convey("Then equal scores share a rank", func() {
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[2].Rank, ShouldEqual, 1)
			So(rows[3].Rank, ShouldEqual, 2)
			So(rows[3].Tier, ShouldEqual, analytics.TierJunior)
		})
	})
}

func TestStatusBreakdown(t *testing.T) {
	Convey("Given projects in various states", t, func() {
		out := analytics.StatusBreakdown([]model.Project{
			{Status: model.ProjectStatusNew},
			{Status: model.ProjectStatusNew},
			{Status: model.ProjectStatusClosed},
			{},
		})

		Convey("Then every known status is reported with unset last", func() {
			So(out, ShouldResemble, []analytics.StatusCount{
				{Status: "NEW", Count: 2},
				{Status: "IN_PROGRESS", Count: 0},
				{Status: "CLOSED", Count: 1},
				{Status: "UNSET", Count: 1},
			})
		})
	})
}

func TestEngineersFilter(t *testing.T) {
	Convey("Given users of several roles", t, func() {
		users := []model.User{
			{ID: "1", Role: model.RoleHR},
			{ID: "2", Role: model.RoleEngineer},
			{ID: "3", Role: "engineer"},
			{ID: "4", Role: model.RolePM},
		}

		Convey("Then only engineers are kept in order", func() {
			got := analytics.Engineers(users)
			So(got, ShouldHaveLength, 2)
			So(got[0].ID, ShouldEqual, model.ID("2"))
			So(got[1].ID, ShouldEqual, model.ID("3"))
		})
	})
}

func TestRounding(t *testing.T) {
	Convey("Given values on rounding boundaries", t, func() {
		So(analytics.RoundHalfUp(0.5), ShouldEqual, 1)
		So(analytics.RoundHalfUp(2.5), ShouldEqual, 3)
		So(analytics.RoundHalfUp(2.49), ShouldEqual, 2)
		So(analytics.RoundHalfUp(math.NaN()), ShouldEqual, 0)
		So(analytics.FormatOneDecimal(0.25), ShouldEqual, "0.3")
		So(analytics.FormatOneDecimal(0), ShouldEqual, "0.0")
		So(analytics.FormatOneDecimal(1.04), ShouldEqual, "1.0")
	})
}
